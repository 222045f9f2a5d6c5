package repository

import (
	"context"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// CatalogRepository define el puerto de lectura del catálogo (productos activos y grades).
// El filtro de "activo" lo aplica la fuente, no el núcleo.
type CatalogRepository interface {
	// ListProducts devuelve los productos activos ordenados por ID.
	// Las filas que no se pueden mapear se informan como advertencias.
	ListProducts(ctx context.Context) ([]entity.Product, []entity.IntegrityWarning, error)
	// ListGrades devuelve las variantes de un producto ordenadas por código.
	ListGrades(ctx context.Context, productID int64) ([]entity.GradeVariant, error)
	// ListAllGrades devuelve todas las variantes en una sola consulta (producto, código).
	ListAllGrades(ctx context.Context) ([]entity.GradeVariant, error)
}
