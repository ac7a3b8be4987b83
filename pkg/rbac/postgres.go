package rbac

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Postgres infrastructure errors.
var (
	ErrInvalidPostgresConfig = errors.New("rbac.invalid_postgres_config")
	ErrPostgresUnavailable   = errors.New("rbac.postgres_unavailable")
	ErrMigrationFailed       = errors.New("rbac.migration_failed")
)

// PostgresConfig configures the connection pool and migrations for the
// Postgres-backed store.
type PostgresConfig struct {
	ConnectionString string        `env:"ACCESSKIT_PG_CONN_URL,required"`
	MaxOpenConns     int32         `env:"ACCESSKIT_PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"ACCESSKIT_PG_MAX_IDLE_CONNS" envDefault:"5"`
	RetryAttempts    int           `env:"ACCESSKIT_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"ACCESSKIT_PG_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsTable  string        `env:"ACCESSKIT_PG_MIGRATIONS_TABLE" envDefault:"accesskit_migrations"`
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ConnectPostgres establishes a pgx connection pool, retrying with a
// growing delay so a briefly unavailable database does not fail startup.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidPostgresConfig, err)
	}
	poolConfig.MaxConns = cfg.MaxOpenConns
	poolConfig.MinConns = cfg.MaxIdleConns

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrPostgresUnavailable, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, ErrPostgresUnavailable
}

// MigratePostgres applies the embedded schema migrations with goose,
// bridging the pgx pool to the database/sql interface goose expects.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close migration connection", slog.Any("error", err))
		}
	}(db)

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseSlogAdapter{logger: logger})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// gooseSlogAdapter routes goose's Printf-style logging through slog.
type gooseSlogAdapter struct {
	logger *slog.Logger
}

func (a gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a gooseSlogAdapter) Printf(format string, v ...any) {
	a.logger.Info(fmt.Sprintf(format, v...))
}
