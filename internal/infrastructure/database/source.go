package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

var (
	_ repository.DataSource = (*PgxSource)(nil)
	_ repository.DataSource = (*SQLSource)(nil)
	_ repository.Session    = (*session)(nil)
)

// snapshotTx todas las consultas de una sesión PostgreSQL ven la misma foto de la base.
var snapshotTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// PgxSource fuente PostgreSQL: cada Acquire toma una conexión dedicada del pool
// y abre sobre ella una transacción de solo lectura.
type PgxSource struct {
	pool *pgxpool.Pool
	d    Dialect
	text *TextDecoder
}

// NewPgxSource construye la fuente sobre un pool ya abierto.
func NewPgxSource(pool *pgxpool.Pool, text *TextDecoder) *PgxSource {
	return &PgxSource{pool: pool, d: NewDialect(config.DriverPostgres), text: text}
}

// Acquire toma una conexión e inicia la transacción; Release hace rollback y la devuelve al pool.
func (s *PgxSource) Acquire(ctx context.Context) (repository.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	tx, err := conn.BeginTx(ctx, snapshotTx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	release := func() {
		_ = tx.Rollback(context.Background())
		conn.Release()
	}
	return newSession(pgxQuerier{q: tx}, s.d, s.text, release), nil
}

// SQLSource fuente MySQL o Firebird sobre database/sql.
type SQLSource struct {
	db   *sql.DB
	d    Dialect
	text *TextDecoder
}

// NewSQLSource construye la fuente sobre un *sql.DB ya abierto.
func NewSQLSource(db *sql.DB, driver string, text *TextDecoder) *SQLSource {
	return &SQLSource{db: db, d: NewDialect(driver), text: text}
}

// Acquire reserva una conexión del pool de database/sql; Release la devuelve.
func (s *SQLSource) Acquire(ctx context.Context) (repository.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	return newSession(sqlQuerier{conn: conn}, s.d, s.text, func() { _ = conn.Close() }), nil
}

// session agrupa los repositorios atados a una misma conexión.
type session struct {
	catalog *CatalogRepo
	stock   *StockRepo
	sales   *SalesRepo
	release func()
}

func newSession(q Querier, d Dialect, text *TextDecoder, release func()) *session {
	return &session{
		catalog: NewCatalogRepository(q, d, text),
		stock:   NewStockRepository(q, d, text),
		sales:   NewSalesRepository(q, d, text),
		release: release,
	}
}

func (s *session) Catalog() repository.CatalogRepository { return s.catalog }
func (s *session) Stock() repository.StockRepository     { return s.stock }
func (s *session) Sales() repository.SalesRepository     { return s.sales }

// Release es idempotente.
func (s *session) Release() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Open abre la fuente del driver configurado; closeFn libera el pool subyacente.
// Un fallo de conexión se devuelve como DataAccessError.
func Open(ctx context.Context, cfg config.DBConfig) (ds repository.DataSource, closeFn func(), err error) {
	text, err := NewTextDecoder(cfg.Charset)
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, domain.NewDataAccessError("database.Open", err)
		}
		return NewPgxSource(pool, text), pool.Close, nil
	case config.DriverMySQL, config.DriverFirebird:
		db, err := NewSQLDB(ctx, cfg)
		if err != nil {
			return nil, nil, domain.NewDataAccessError("database.Open", err)
		}
		return NewSQLSource(db, cfg.Driver, text), func() { _ = db.Close() }, nil
	}
	return nil, nil, &domain.ConfigurationError{Fields: []string{fmt.Sprintf("DB_DRIVER: %q no soportado", cfg.Driver)}}
}
