package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"log"

	"magnetlab_backend/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Direction selects which goose command Migrate runs.
type Direction string

const (
	MigrateUp     Direction = "up"
	MigrateDown   Direction = "down"
	MigrateStatus Direction = "status"
)

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig) error {
	return Migrate(ctx, cfg, MigrateUp, nil)
}

// Migrate runs the goose command for dir against the configured database.
// Status output is written to out when provided.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, dir Direction, out io.Writer) error {
	sqlDB, err := sql.Open("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if out != nil {
		goose.SetLogger(log.New(out, "", 0))
	}

	switch dir {
	case MigrateUp:
		return goose.UpContext(ctx, sqlDB, migrationsDir)
	case MigrateDown:
		return goose.DownContext(ctx, sqlDB, migrationsDir)
	case MigrateStatus:
		return goose.StatusContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}
}
