package config

import "errors"

var (
	// ErrParsingConfig wraps failures to parse environment variables into
	// the target struct, including missing required variables.
	ErrParsingConfig = errors.New("config.parsing_failed")

	// ErrLoadingEnvFile wraps failures to read a dotenv file.
	ErrLoadingEnvFile = errors.New("config.env_file_failed")

	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config.nil_pointer")
)
