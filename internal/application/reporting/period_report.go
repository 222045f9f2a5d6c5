package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
)

const salesSource = "sales"

// PeriodReportBuilder genera el reporte de ventas y stock de un período.
// El reporte es todo o nada: ante un error de acceso a datos no se devuelven filas.
type PeriodReportBuilder struct {
	ds repository.DataSource
}

// NewPeriodReportBuilder construye el caso de uso.
func NewPeriodReportBuilder(ds repository.DataSource) *PeriodReportBuilder {
	return &PeriodReportBuilder{ds: ds}
}

// Build arma una fila por producto con ventas o stock en el período, ordenadas por ID.
//  1. Carga productos.
//  2. Suma ventas con start <= fecha < end por producto (y por variante).
//  3. Resuelve el stock al cierre del período (filas registradas antes de end).
//  4. Emite las filas de productos con ventas > 0 o stock > 0.
func (b *PeriodReportBuilder) Build(ctx context.Context, period entity.Period) (*entity.PeriodReport, error) {
	if period.Start.After(period.End) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPeriod, period)
	}
	if period.IsEmpty() {
		return &entity.PeriodReport{Period: period, Rows: []entity.ReportRow{}}, nil
	}

	sess, err := acquire(ctx, b.ds, "period")
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
	known := knownProducts(products)

	sales, sw, err := sess.Sales().ListSales(ctx, period.Start, period.End)
	if err != nil {
		return nil, domain.NewDataAccessError("sales.ListSales", err)
	}
	warnings = append(warnings, sw...)

	sold, byGrade, aw := aggregateSales(sales, period, known)
	warnings = append(warnings, aw...)

	// Cierre semiabierto: una fila registrada exactamente en End pertenece al período siguiente.
	asOf := period.End.Add(-time.Nanosecond)
	snap, err := resolver.Snapshot(ctx, &asOf)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, snap.Warnings...)
	warnings = append(warnings, snap.Orphans(known)...)

	rows := make([]entity.ReportRow, 0, len(products))
	for _, p := range products {
		qty := sold[p.ID]
		stock := snap.Total(p.ID)
		if qty == 0 && stock == 0 {
			continue
		}
		rows = append(rows, entity.ReportRow{
			Product:          p,
			Period:           period,
			QuantitySold:     qty,
			StockAtPeriodEnd: stock,
			SalesValue:       p.UnitPrice.Mul(decimal.NewFromInt(qty)),
			StockValue:       p.UnitCost.Mul(decimal.NewFromInt(stock)),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Product.ID < rows[j].Product.ID })

	daily := aggregateDaily(sales, period, products)
	return &entity.PeriodReport{
		Period:        period,
		Rows:          rows,
		GradeOutflows: byGrade,
		Daily:         daily,
		Weekdays:      summarizeWeekdays(daily),
		Totals:        totals(rows),
		Warnings:      warnings,
	}, nil
}

type gradeKey struct {
	productID int64
	code      string
}

// aggregateSales suma cantidades por producto y por variante.
// Ventas de productos fuera del catálogo se excluyen con advertencia.
func aggregateSales(
	sales []entity.SalesRecord,
	period entity.Period,
	known map[int64]struct{},
) (map[int64]int64, []entity.GradeOutflowRow, []entity.IntegrityWarning) {
	sold := make(map[int64]int64)
	perGrade := make(map[gradeKey]int64)
	var warnings []entity.IntegrityWarning

	for _, s := range sales {
		if !period.Contains(s.SoldAt) {
			continue
		}
		if _, ok := known[s.ProductID]; !ok {
			warnings = append(warnings, entity.IntegrityWarning{
				Kind:      entity.WarningUnknownProduct,
				Source:    salesSource,
				ProductID: s.ProductID,
				GradeCode: s.GradeCode,
				Detail:    fmt.Sprintf("venta de %d unidades el %s excluida", s.Quantity, s.SoldAt.Format(time.DateOnly)),
			})
			continue
		}
		qty := s.Quantity
		if qty < 0 {
			warnings = append(warnings, entity.IntegrityWarning{
				Kind:      entity.WarningNegativeQuantity,
				Source:    salesSource,
				ProductID: s.ProductID,
				GradeCode: s.GradeCode,
				Detail:    fmt.Sprintf("cantidad vendida %d recortada a 0", qty),
			})
			qty = 0
		}
		sold[s.ProductID] += qty
		if s.GradeCode != "" {
			perGrade[gradeKey{s.ProductID, s.GradeCode}] += qty
		}
	}

	outflows := make([]entity.GradeOutflowRow, 0, len(perGrade))
	for k, qty := range perGrade {
		if qty == 0 {
			continue
		}
		outflows = append(outflows, entity.GradeOutflowRow{ProductID: k.productID, GradeCode: k.code, Quantity: qty})
	}
	sort.Slice(outflows, func(i, j int) bool {
		if outflows[i].ProductID != outflows[j].ProductID {
			return outflows[i].ProductID < outflows[j].ProductID
		}
		return outflows[i].GradeCode < outflows[j].GradeCode
	})
	return sold, outflows, warnings
}

// aggregateDaily agrupa las ventas por día calendario en la zona del período. Aplica las
// mismas exclusiones que aggregateSales sin repetir sus advertencias.
func aggregateDaily(sales []entity.SalesRecord, period entity.Period, products []entity.Product) []entity.DailySalesRow {
	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.UnitPrice
	}
	loc := period.Start.Location()

	type day struct {
		row      entity.DailySalesRow
		products map[int64]struct{}
	}
	days := make(map[time.Time]*day)
	for _, s := range sales {
		price, ok := prices[s.ProductID]
		if !ok || s.Quantity <= 0 || !period.Contains(s.SoldAt) {
			continue
		}
		at := s.SoldAt.In(loc)
		date := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, loc)
		d, ok := days[date]
		if !ok {
			d = &day{row: entity.DailySalesRow{Date: date, SalesValue: decimal.Zero}, products: make(map[int64]struct{})}
			days[date] = d
		}
		d.row.QuantitySold += s.Quantity
		d.row.SalesValue = d.row.SalesValue.Add(price.Mul(decimal.NewFromInt(s.Quantity)))
		d.products[s.ProductID] = struct{}{}
	}

	out := make([]entity.DailySalesRow, 0, len(days))
	for _, d := range days {
		d.row.Products = len(d.products)
		out = append(out, d.row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// summarizeWeekdays acumula los días por día de semana, de lunes a domingo.
func summarizeWeekdays(daily []entity.DailySalesRow) []entity.WeekdaySummaryRow {
	var acc [7]*entity.WeekdaySummaryRow
	for _, d := range daily {
		i := (int(d.Date.Weekday()) + 6) % 7
		if acc[i] == nil {
			acc[i] = &entity.WeekdaySummaryRow{Weekday: d.Date.Weekday(), SalesValue: decimal.Zero}
		}
		acc[i].Days++
		acc[i].QuantitySold += d.QuantitySold
		acc[i].SalesValue = acc[i].SalesValue.Add(d.SalesValue)
	}
	out := make([]entity.WeekdaySummaryRow, 0, len(acc))
	for _, w := range acc {
		if w != nil {
			out = append(out, *w)
		}
	}
	return out
}

func totals(rows []entity.ReportRow) entity.PeriodTotals {
	t := entity.PeriodTotals{SalesValue: decimal.Zero, StockValue: decimal.Zero}
	for _, r := range rows {
		t.QuantitySold += r.QuantitySold
		t.SalesValue = t.SalesValue.Add(r.SalesValue)
		t.StockAtPeriodEnd += r.StockAtPeriodEnd
		t.StockValue = t.StockValue.Add(r.StockValue)
	}
	return t
}

func acquire(ctx context.Context, ds repository.DataSource, op string) (repository.Session, error) {
	sess, err := ds.Acquire(ctx)
	if err != nil {
		return nil, domain.NewDataAccessError(op+".Acquire", err)
	}
	return sess, nil
}
