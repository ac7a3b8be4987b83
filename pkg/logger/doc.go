// Package logger builds configured slog loggers and provides attribute
// helpers for the identifiers that recur across access-control logs.
//
// The factory defaults to JSON output at INFO level, which suits log
// aggregation; development setups switch to text with WithText.
//
// Usage:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithService("accesskit"),
//	)
//	log.Info("role updated", logger.UserID(userID), logger.Scope(scope))
package logger
