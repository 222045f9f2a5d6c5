package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo implementación de SalesRepository.
type SalesRepo struct {
	q    Querier
	d    Dialect
	text *TextDecoder
}

// NewSalesRepository construye el adaptador de ventas sobre una conexión adquirida.
func NewSalesRepository(q Querier, d Dialect, text *TextDecoder) *SalesRepo {
	return &SalesRepo{q: q, d: d, text: text}
}

// ListSales lista las ventas con start <= sold_at < end.
func (r *SalesRepo) ListSales(ctx context.Context, start, end time.Time) ([]entity.SalesRecord, []entity.IntegrityWarning, error) {
	query, args, err := r.d.salesQuery(start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("sales.ListSales: build: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("sales.ListSales: %w", err)
	}
	defer rows.Close()

	var (
		out      []entity.SalesRecord
		warnings []entity.IntegrityWarning
	)
	for rows.Next() {
		var (
			pid    int64
			grade  []byte
			raw    numeric
			soldAt time.Time
		)
		if err := rows.Scan(&pid, &grade, &raw, &soldAt); err != nil {
			return nil, nil, fmt.Errorf("sales.ListSales: scan: %w", err)
		}
		code := r.text.Text(grade)
		qty, err := quantity(raw)
		if err != nil {
			warnings = append(warnings, malformed(tableSales, pid, code, "%v el %s", err, soldAt.Format(time.DateOnly)))
			continue
		}
		out = append(out, entity.SalesRecord{ProductID: pid, GradeCode: code, Quantity: qty, SoldAt: soldAt})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("sales.ListSales: rows: %w", err)
	}
	return out, warnings, nil
}
