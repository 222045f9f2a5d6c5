package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/nakagami/firebirdsql"

	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

// sqlDriverName nombre con el que cada driver se registra en database/sql.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverMySQL:
		return "mysql", nil
	case config.DriverFirebird:
		return "firebirdsql", nil
	}
	return "", fmt.Errorf("driver %q sin soporte database/sql", driver)
}

// NewSQLDB abre el pool database/sql para MySQL o Firebird y verifica la conexión.
func NewSQLDB(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	name, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", name, err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return db, nil
}
