package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica (o revierte con down) el esquema de reportes. Solo PostgreSQL: las bases
// MySQL y Firebird son sistemas heredados de solo lectura con su propio esquema.
func Migrate(ctx context.Context, cfg config.DBConfig, direction string) error {
	if cfg.Driver != config.DriverPostgres {
		return &domain.ConfigurationError{Fields: []string{fmt.Sprintf("DB_DRIVER: migrate solo soporta postgres, no %q", cfg.Driver)}}
	}
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return domain.NewDataAccessError("migrate.Open", err)
	}
	defer db.Close()

	if direction == "" {
		direction = "up"
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	switch direction {
	case "up":
		err = goose.UpContext(ctx, db, "migrations")
	case "down":
		err = goose.DownContext(ctx, db, "migrations")
	case "status":
		err = goose.StatusContext(ctx, db, "migrations")
	default:
		return fmt.Errorf("%w: dirección %q (up|down|status)", domain.ErrInvalidInput, direction)
	}
	if err != nil {
		return domain.NewDataAccessError("migrate."+direction, err)
	}
	return nil
}
