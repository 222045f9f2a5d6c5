package reporting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

// GradeStockAnalyzer desglosa el stock actual por variante (talla, color, ...).
type GradeStockAnalyzer struct {
	ds repository.DataSource
}

// NewGradeStockAnalyzer construye el caso de uso.
func NewGradeStockAnalyzer(ds repository.DataSource) *GradeStockAnalyzer {
	return &GradeStockAnalyzer{ds: ds}
}

// Analyze emite una fila por (producto, variante), incluidas las variantes en cero:
// una variante existente sin stock es información distinta de una variante eliminada.
// Productos sin variantes no generan filas. Orden: ID de producto, luego código de variante.
func (a *GradeStockAnalyzer) Analyze(ctx context.Context) (*entity.GradeBreakdown, error) {
	sess, err := acquire(ctx, a.ds, "grades")
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
	grades, err := catalog.LoadAllGrades(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := resolver.Snapshot(ctx, nil)
	if err != nil {
		return nil, err
	}
	known := knownProducts(products)
	warnings = append(warnings, snap.Warnings...)
	warnings = append(warnings, snap.Orphans(known)...)
	warnings = append(warnings, orphanVariants(grades, known)...)

	rows := make([]entity.GradeBreakdownRow, 0, len(grades))
	for _, p := range products {
		variants := grades[p.ID]
		if len(variants) == 0 {
			continue
		}
		byGrade, gw := snap.ByGrade(p.ID, variants)
		warnings = append(warnings, gw...)
		for _, v := range variants {
			qty := byGrade[v.Code]
			rows = append(rows, entity.GradeBreakdownRow{
				Product:    p,
				Variant:    v,
				Available:  qty,
				StockValue: p.UnitCost.Mul(decimal.NewFromInt(qty)),
			})
		}
	}

	return &entity.GradeBreakdown{Rows: rows, Warnings: warnings}, nil
}
