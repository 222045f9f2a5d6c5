package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
)

// Querier ejecuta consultas de solo lectura sobre una conexión adquirida.
// Lo implementan la conexión pgx y la conexión database/sql, de modo que los repositorios
// son los mismos para los tres drivers.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows cursor mínimo común a pgx.Rows y *sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

var (
	_ Querier = pgxQuerier{}
	_ Querier = sqlQuerier{}
	_ Rows    = (pgx.Rows)(nil)
)

// pgxQueryer lo cumplen *pgxpool.Conn y pgx.Tx.
type pgxQueryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type pgxQuerier struct {
	q pgxQueryer
}

func (q pgxQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := q.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type sqlQuerier struct {
	conn *sql.Conn
}

func (q sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := q.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

// sqlRows adapta *sql.Rows: Close no devuelve error (el error de iteración sale por Err).
type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() { _ = r.Rows.Close() }
