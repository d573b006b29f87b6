package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/weblogin/weblogin/internal/common/logger"
	"github.com/weblogin/weblogin/migrations"
)

// RunMigrations applies the embedded schema migrations through a short-lived
// database/sql connection. Connection-level faults are retried with backoff.
func RunMigrations(ctx context.Context, log *logger.Logger, databaseURL string) error {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	err = RetryWithBackoff(ctx, log, DefaultRetryConfig, func() error {
		return goose.UpContext(ctx, conn, ".")
	})
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err == nil {
		log.Infof("database schema at version %d", version)
	}

	return nil
}
