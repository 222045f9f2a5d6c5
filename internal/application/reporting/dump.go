package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

// DumpGenerator captura el estado completo (catálogo, grades, stock) en un solo objeto.
// Lectura en una pasada sin bloqueo: puede observar cambios entre subconsultas.
type DumpGenerator struct {
	ds  repository.DataSource
	now func() time.Time
}

// NewDumpGenerator construye el caso de uso.
func NewDumpGenerator(ds repository.DataSource) *DumpGenerator {
	return &DumpGenerator{ds: ds, now: time.Now}
}

// Generate arma el dump. Sin filtro de período.
func (g *DumpGenerator) Generate(ctx context.Context) (*entity.Dump, error) {
	sess, err := acquire(ctx, g.ds, "dump")
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

	items := make([]entity.DumpProduct, 0, len(products))
	for _, p := range products {
		variants := grades[p.ID]
		if variants == nil {
			variants = []entity.GradeVariant{}
		}
		entries := snap.Entries[p.ID]
		if entries == nil {
			entries = []entity.StockEntry{}
		}
		items = append(items, entity.DumpProduct{
			Product:      p,
			Variants:     variants,
			StockEntries: entries,
			Available:    snap.Total(p.ID),
		})
	}

	return &entity.Dump{
		ID:          uuid.NewString(),
		GeneratedAt: g.now().UTC(),
		Products:    items,
		Warnings:    warnings,
	}, nil
}
