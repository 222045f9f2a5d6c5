package database

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository sobre cualquier driver soportado.
type CatalogRepo struct {
	q    Querier
	d    Dialect
	text *TextDecoder
}

// NewCatalogRepository construye el adaptador de catálogo sobre una conexión adquirida.
func NewCatalogRepository(q Querier, d Dialect, text *TextDecoder) *CatalogRepo {
	return &CatalogRepo{q: q, d: d, text: text}
}

// ListProducts devuelve los productos activos. Un precio o costo NULL se toma como 0 con advertencia.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]entity.Product, []entity.IntegrityWarning, error) {
	query, args, err := r.d.productsQuery()
	if err != nil {
		return nil, nil, fmt.Errorf("catalog.ListProducts: build: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog.ListProducts: %w", err)
	}
	defer rows.Close()

	var (
		out      []entity.Product
		warnings []entity.IntegrityWarning
	)
	for rows.Next() {
		var (
			id                        int64
			ref, name, category, unit []byte
			unitPrice, unitCost       numeric
		)
		if err := rows.Scan(&id, &ref, &name, &category, &unit, &unitPrice, &unitCost); err != nil {
			return nil, nil, fmt.Errorf("catalog.ListProducts: scan: %w", err)
		}
		p := entity.Product{
			ID:        id,
			Reference: r.text.Text(ref),
			Name:      r.text.Text(name),
			Category:  r.text.Text(category),
			Unit:      r.text.Text(unit),
		}
		var ok bool
		if p.UnitPrice, ok = price(unitPrice); !ok {
			warnings = append(warnings, malformed(tableProducts, id, "", "unit_price nulo, se usa 0"))
		}
		if p.UnitCost, ok = price(unitCost); !ok {
			warnings = append(warnings, malformed(tableProducts, id, "", "unit_cost nulo, se usa 0"))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("catalog.ListProducts: rows: %w", err)
	}
	return out, warnings, nil
}

// ListGrades lista las variantes de un producto.
func (r *CatalogRepo) ListGrades(ctx context.Context, productID int64) ([]entity.GradeVariant, error) {
	return r.listGrades(ctx, &productID)
}

// ListAllGrades lista las variantes de todos los productos en una consulta.
func (r *CatalogRepo) ListAllGrades(ctx context.Context) ([]entity.GradeVariant, error) {
	return r.listGrades(ctx, nil)
}

func (r *CatalogRepo) listGrades(ctx context.Context, productID *int64) ([]entity.GradeVariant, error) {
	query, args, err := r.d.gradesQuery(productID)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListGrades: build: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListGrades: %w", err)
	}
	defer rows.Close()

	var out []entity.GradeVariant
	for rows.Next() {
		var (
			pid                    int64
			code, dimension, label []byte
		)
		if err := rows.Scan(&pid, &code, &dimension, &label); err != nil {
			return nil, fmt.Errorf("catalog.ListGrades: scan: %w", err)
		}
		out = append(out, entity.GradeVariant{
			ProductID: pid,
			Code:      r.text.Text(code),
			Dimension: r.text.Text(dimension),
			Label:     r.text.Text(label),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog.ListGrades: rows: %w", err)
	}
	return out, nil
}
