package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/firmdata/dataroom/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// Migrations are embedded so the binary carries its schema and has no
// filesystem dependency at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

const versionTable = "schema_version"

// Migrate runs database migrations to the latest version using tern
// over a single short-lived connection.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, buildDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect for migration: %w", err)
	}
	defer conn.Close(ctx)

	migrator, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	migrationFS, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	if err := migrator.LoadMigrations(migrationFS); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	from, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if from == to {
		logger.Info().Int32("version", to).Msg("database schema already up to date")
	} else {
		logger.Info().Int32("from", from).Int32("to", to).Msg("database schema migrated")
	}

	return nil
}
