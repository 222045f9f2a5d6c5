package reporting_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

var errBoom = errors.New("conexión perdida")

// fakeSource fuente en memoria. failOn simula un fallo en "acquire", "products",
// "grades", "stock" o "sales".
type fakeSource struct {
	mu       sync.Mutex
	products []entity.Product
	grades   []entity.GradeVariant
	stock    []entity.StockEntry
	sales    []entity.SalesRecord
	failOn   string
	acquired int
	released int
}

var _ repository.DataSource = (*fakeSource)(nil)

func (f *fakeSource) Acquire(_ context.Context) (repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "acquire" {
		return nil, errBoom
	}
	f.acquired++
	return &fakeSession{src: f}, nil
}

func (f *fakeSource) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquired, f.released
}

type fakeSession struct {
	src *fakeSource
}

func (s *fakeSession) Catalog() repository.CatalogRepository { return s }
func (s *fakeSession) Stock() repository.StockRepository     { return s }
func (s *fakeSession) Sales() repository.SalesRepository     { return s }

func (s *fakeSession) Release() {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	s.src.released++
}

func (s *fakeSession) ListProducts(_ context.Context) ([]entity.Product, []entity.IntegrityWarning, error) {
	if s.src.failOn == "products" {
		return nil, nil, errBoom
	}
	return append([]entity.Product(nil), s.src.products...), nil, nil
}

func (s *fakeSession) ListGrades(_ context.Context, productID int64) ([]entity.GradeVariant, error) {
	if s.src.failOn == "grades" {
		return nil, errBoom
	}
	var out []entity.GradeVariant
	for _, g := range s.src.grades {
		if g.ProductID == productID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *fakeSession) ListAllGrades(_ context.Context) ([]entity.GradeVariant, error) {
	if s.src.failOn == "grades" {
		return nil, errBoom
	}
	return append([]entity.GradeVariant(nil), s.src.grades...), nil
}

// ListEntries devuelve todas las filas sin filtrar: el resolver debe aplicar el filtro igual.
func (s *fakeSession) ListEntries(_ context.Context, _ repository.StockFilter) ([]entity.StockEntry, []entity.IntegrityWarning, error) {
	if s.src.failOn == "stock" {
		return nil, nil, errBoom
	}
	return append([]entity.StockEntry(nil), s.src.stock...), nil, nil
}

func (s *fakeSession) ListSales(_ context.Context, start, end time.Time) ([]entity.SalesRecord, []entity.IntegrityWarning, error) {
	if s.src.failOn == "sales" {
		return nil, nil, errBoom
	}
	var out []entity.SalesRecord
	for _, r := range s.src.sales {
		if !r.SoldAt.Before(start) && r.SoldAt.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil, nil
}

// ── Builders de datos ─────────────────────────────────────────────────────────

var base = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

func product(id int64, name string) entity.Product {
	return entity.Product{
		ID:        id,
		Reference: name,
		Name:      name,
		Category:  "GERAL",
		Unit:      "UN",
		UnitPrice: decimal.NewFromInt(10),
		UnitCost:  decimal.NewFromInt(4),
	}
}

func stockRow(productID int64, grade string, qty int64, at time.Time) entity.StockEntry {
	return entity.StockEntry{ProductID: productID, GradeCode: grade, Warehouse: "LOJA1", Quantity: qty, RecordedAt: at}
}

func sale(productID int64, grade string, qty int64, at time.Time) entity.SalesRecord {
	return entity.SalesRecord{ProductID: productID, GradeCode: grade, Quantity: qty, SoldAt: at}
}

func march() entity.Period {
	p, _ := entity.PeriodContaining(base, entity.GranularityMonthly)
	return p
}
