package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

const stockSource = "stock_entries"

// StockResolver calcula la cantidad disponible por producto y por variante.
// Reglas:
//   - Cada fila negativa se recorta a 0 antes de sumar y genera una advertencia.
//   - Sin filas de stock el resultado es 0, no un error.
//   - Con asOf solo cuentan las filas registradas en o antes de ese instante.
type StockResolver struct {
	stock   repository.StockRepository
	catalog *ProductCatalog
}

// NewStockResolver construye el resolver; catalog se usa para conocer las variantes.
func NewStockResolver(stock repository.StockRepository, catalog *ProductCatalog) *StockResolver {
	return &StockResolver{stock: stock, catalog: catalog}
}

// Resolve devuelve el stock disponible de un producto.
func (r *StockResolver) Resolve(ctx context.Context, productID int64, asOf *time.Time) (int64, []entity.IntegrityWarning, error) {
	snap, err := r.snapshot(ctx, repository.StockFilter{ProductID: &productID, AsOf: asOf})
	if err != nil {
		return 0, nil, err
	}
	return snap.Total(productID), snap.Warnings, nil
}

// ResolveByGrade devuelve el stock por código de variante; toda variante del catálogo
// aparece en el mapa, con 0 si no tiene filas.
func (r *StockResolver) ResolveByGrade(ctx context.Context, productID int64) (map[string]int64, []entity.IntegrityWarning, error) {
	grades, err := r.catalog.LoadGrades(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := r.snapshot(ctx, repository.StockFilter{ProductID: &productID})
	if err != nil {
		return nil, nil, err
	}
	byGrade, gw := snap.ByGrade(productID, grades)
	return byGrade, append(snap.Warnings, gw...), nil
}

// ResolveAll devuelve el stock disponible de todos los productos con filas.
func (r *StockResolver) ResolveAll(ctx context.Context, asOf *time.Time) (map[int64]int64, []entity.IntegrityWarning, error) {
	snap, err := r.Snapshot(ctx, asOf)
	if err != nil {
		return nil, nil, err
	}
	return snap.Totals, snap.Warnings, nil
}

// Snapshot lee todas las entradas (hasta asOf) en una sola consulta.
// Lo usan las operaciones masivas para evitar una consulta por producto.
func (r *StockResolver) Snapshot(ctx context.Context, asOf *time.Time) (*StockSnapshot, error) {
	return r.snapshot(ctx, repository.StockFilter{AsOf: asOf})
}

func (r *StockResolver) snapshot(ctx context.Context, f repository.StockFilter) (*StockSnapshot, error) {
	entries, warnings, err := r.stock.ListEntries(ctx, f)
	if err != nil {
		return nil, domain.NewDataAccessError("stock.ListEntries", err)
	}
	snap := &StockSnapshot{
		Entries:  make(map[int64][]entity.StockEntry),
		Totals:   make(map[int64]int64),
		Warnings: warnings,
	}
	for _, e := range entries {
		if f.ProductID != nil && e.ProductID != *f.ProductID {
			continue
		}
		if f.AsOf != nil && e.RecordedAt.After(*f.AsOf) {
			continue
		}
		if e.Quantity < 0 {
			snap.Warnings = append(snap.Warnings, entity.IntegrityWarning{
				Kind:      entity.WarningNegativeQuantity,
				Source:    stockSource,
				ProductID: e.ProductID,
				GradeCode: e.GradeCode,
				Detail:    fmt.Sprintf("cantidad %d en bodega %q recortada a 0", e.Quantity, e.Warehouse),
			})
			e.Quantity = 0
		}
		snap.Entries[e.ProductID] = append(snap.Entries[e.ProductID], e)
		snap.Totals[e.ProductID] += e.Quantity
	}
	for id := range snap.Entries {
		sortEntries(snap.Entries[id])
	}
	return snap, nil
}

// StockSnapshot entradas ya recortadas (cantidades >= 0) agrupadas por producto.
type StockSnapshot struct {
	Entries  map[int64][]entity.StockEntry
	Totals   map[int64]int64
	Warnings []entity.IntegrityWarning
}

// Total stock disponible del producto (0 si no hay filas).
func (s *StockSnapshot) Total(productID int64) int64 { return s.Totals[productID] }

// ByGrade suma las entradas del producto por variante. Las filas sin grade cuentan solo
// en el total del producto; las de un código desconocido se informan como advertencia.
func (s *StockSnapshot) ByGrade(productID int64, grades []entity.GradeVariant) (map[string]int64, []entity.IntegrityWarning) {
	out := make(map[string]int64, len(grades))
	for _, g := range grades {
		out[g.Code] = 0
	}
	var warnings []entity.IntegrityWarning
	for _, e := range s.Entries[productID] {
		if e.GradeCode == "" {
			continue
		}
		if _, ok := out[e.GradeCode]; !ok {
			warnings = append(warnings, entity.IntegrityWarning{
				Kind:      entity.WarningUnknownGrade,
				Source:    stockSource,
				ProductID: productID,
				GradeCode: e.GradeCode,
				Detail:    fmt.Sprintf("%d unidades en bodega %q sin variante registrada", e.Quantity, e.Warehouse),
			})
			continue
		}
		out[e.GradeCode] += e.Quantity
	}
	return out, warnings
}

// Orphans advierte una vez por fila de stock cuyo producto no está en el catálogo activo.
// Esas filas siguen en Entries y Totals pero ningún reporte las muestra.
func (s *StockSnapshot) Orphans(known map[int64]struct{}) []entity.IntegrityWarning {
	ids := make([]int64, 0)
	for id := range s.Entries {
		if _, ok := known[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var warnings []entity.IntegrityWarning
	for _, id := range ids {
		for _, e := range s.Entries[id] {
			warnings = append(warnings, entity.IntegrityWarning{
				Kind:      entity.WarningUnknownProduct,
				Source:    stockSource,
				ProductID: id,
				GradeCode: e.GradeCode,
				Detail:    fmt.Sprintf("%d unidades en bodega %q excluidas", e.Quantity, e.Warehouse),
			})
		}
	}
	return warnings
}

func sortEntries(es []entity.StockEntry) {
	sort.SliceStable(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.GradeCode != b.GradeCode {
			return a.GradeCode < b.GradeCode
		}
		if a.Warehouse != b.Warehouse {
			return a.Warehouse < b.Warehouse
		}
		return a.RecordedAt.Before(b.RecordedAt)
	})
}
