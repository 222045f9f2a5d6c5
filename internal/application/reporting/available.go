package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

// AvailableProductFilter lista los productos disponibles para vender ahora.
type AvailableProductFilter struct {
	ds repository.DataSource
}

// NewAvailableProductFilter construye el caso de uso.
func NewAvailableProductFilter(ds repository.DataSource) *AvailableProductFilter {
	return &AvailableProductFilter{ds: ds}
}

// Filter devuelve los productos con stock actual estrictamente mayor que cero.
// Un producto con stock exactamente 0 queda fuera.
func (f *AvailableProductFilter) Filter(ctx context.Context) (*entity.AvailableProducts, error) {
	sess, err := acquire(ctx, f.ds, "available")
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	catalog := NewProductCatalog(sess.Catalog())
	resolver := NewStockResolver(sess.Stock(), catalog)

	products, warnings, err := catalog.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := resolver.Snapshot(ctx, nil)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, snap.Warnings...)
	warnings = append(warnings, snap.Orphans(knownProducts(products))...)

	out := make([]entity.AvailableProduct, 0, len(products))
	for _, p := range products {
		if qty := snap.Total(p.ID); qty > 0 {
			units := decimal.NewFromInt(qty)
			out = append(out, entity.AvailableProduct{
				Product:     p,
				Available:   qty,
				StockValue:  p.UnitCost.Mul(units),
				RetailValue: p.UnitPrice.Mul(units),
			})
		}
	}
	return &entity.AvailableProducts{Products: out, Warnings: warnings}, nil
}
