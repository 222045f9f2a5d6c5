package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository. Devuelve las cantidades crudas (también
// negativas); el recorte a 0 lo hace el resolver.
type StockRepo struct {
	q    Querier
	d    Dialect
	text *TextDecoder
}

// NewStockRepository construye el adaptador de stock sobre una conexión adquirida.
func NewStockRepository(q Querier, d Dialect, text *TextDecoder) *StockRepo {
	return &StockRepo{q: q, d: d, text: text}
}

// ListEntries lista las entradas que cumplen el filtro. Filas con cantidad nula o fraccionaria
// se omiten con advertencia malformed_row.
func (r *StockRepo) ListEntries(ctx context.Context, f repository.StockFilter) ([]entity.StockEntry, []entity.IntegrityWarning, error) {
	query, args, err := r.d.stockQuery(f.ProductID, f.AsOf)
	if err != nil {
		return nil, nil, fmt.Errorf("stock.ListEntries: build: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("stock.ListEntries: %w", err)
	}
	defer rows.Close()

	var (
		out      []entity.StockEntry
		warnings []entity.IntegrityWarning
	)
	for rows.Next() {
		var (
			pid        int64
			grade, wh  []byte
			raw        numeric
			recordedAt time.Time
		)
		if err := rows.Scan(&pid, &grade, &wh, &raw, &recordedAt); err != nil {
			return nil, nil, fmt.Errorf("stock.ListEntries: scan: %w", err)
		}
		e := entity.StockEntry{
			ProductID:  pid,
			GradeCode:  r.text.Text(grade),
			Warehouse:  r.text.Text(wh),
			RecordedAt: recordedAt,
		}
		qty, err := quantity(raw)
		if err != nil {
			warnings = append(warnings, malformed(tableStock, pid, e.GradeCode, "%v en bodega %q", err, e.Warehouse))
			continue
		}
		e.Quantity = qty
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("stock.ListEntries: rows: %w", err)
	}
	return out, warnings, nil
}
