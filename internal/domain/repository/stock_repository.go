package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// StockFilter restringe las entradas de stock. Campos nil = sin filtro.
type StockFilter struct {
	ProductID *int64
	AsOf      *time.Time // solo entradas registradas en o antes de AsOf
}

// StockRepository define el puerto de lectura de entradas de stock.
// Las cantidades se devuelven crudas (pueden ser negativas); el recorte lo hace StockResolver.
type StockRepository interface {
	ListEntries(ctx context.Context, f StockFilter) ([]entity.StockEntry, []entity.IntegrityWarning, error)
}
