package repository

import "context"

// DataSource puerto de la fuente de datos (solo lectura).
// Cada operación de alto nivel adquiere su propia sesión y la libera en toda salida:
//
//	s, err := ds.Acquire(ctx)
//	if err != nil { ... }
//	defer s.Release()
type DataSource interface {
	Acquire(ctx context.Context) (Session, error)
}

// Session repositorios atados a una conexión adquirida del pool.
// No es seguro compartir una sesión entre operaciones concurrentes.
type Session interface {
	Catalog() CatalogRepository
	Stock() StockRepository
	Sales() SalesRepository
	Release()
}
