package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// SalesRepository define el puerto de lectura de ventas acotadas a un intervalo [start, end).
type SalesRepository interface {
	ListSales(ctx context.Context, start, end time.Time) ([]entity.SalesRecord, []entity.IntegrityWarning, error)
}
