// Package config loads typed configuration structs from environment
// variables, optionally seeded from dotenv files.
//
// Structs declare their variables with `env` tags; parsing is delegated to
// caarlos0/env and dotenv loading to joho/godotenv. Load parses fresh on
// every call, so processes that reload settings can call it again after the
// environment changes.
//
// Usage:
//
//	type PostgresConfig struct {
//		DSN string `env:"ACCESSKIT_PG_DSN,required"`
//	}
//
//	config.MustLoadEnv(".env")
//	var cfg PostgresConfig
//	config.MustLoad(&cfg)
package config
