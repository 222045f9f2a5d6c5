package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow una fila por producto y período. Derivada; no se persiste.
type ReportRow struct {
	Product          Product
	Period           Period
	QuantitySold     int64
	StockAtPeriodEnd int64
	SalesValue       decimal.Decimal // QuantitySold × UnitPrice
	StockValue       decimal.Decimal // StockAtPeriodEnd × UnitCost
}

// GradeOutflowRow salidas por venta de una variante dentro del período.
type GradeOutflowRow struct {
	ProductID int64
	GradeCode string
	Quantity  int64
}

// DailySalesRow ventas de un día calendario, en la zona horaria del período.
type DailySalesRow struct {
	Date         time.Time
	QuantitySold int64
	Products     int // productos distintos vendidos en el día
	SalesValue   decimal.Decimal
}

// AverageValue valor medio por unidad vendida.
func (r DailySalesRow) AverageValue() decimal.Decimal {
	return UnitAverage(r.SalesValue, r.QuantitySold)
}

// WeekdaySummaryRow acumulado de los días del período que caen en el mismo día de semana.
type WeekdaySummaryRow struct {
	Weekday      time.Weekday
	Days         int
	QuantitySold int64
	SalesValue   decimal.Decimal
}

// AverageValue valor medio por unidad vendida.
func (r WeekdaySummaryRow) AverageValue() decimal.Decimal {
	return UnitAverage(r.SalesValue, r.QuantitySold)
}

// PeriodTotals suma de las filas del reporte.
type PeriodTotals struct {
	QuantitySold     int64
	SalesValue       decimal.Decimal
	StockAtPeriodEnd int64
	StockValue       decimal.Decimal
}

// UnitAverage divide value por qty redondeando a centavos; 0 cuando qty es 0.
func UnitAverage(value decimal.Decimal, qty int64) decimal.Decimal {
	if qty == 0 {
		return decimal.Zero
	}
	return value.Div(decimal.NewFromInt(qty)).Round(2)
}

// PeriodReport resultado completo de PeriodReportBuilder.Build.
type PeriodReport struct {
	Period        Period
	Rows          []ReportRow
	GradeOutflows []GradeOutflowRow
	Daily         []DailySalesRow     // solo días con ventas, en orden de fecha
	Weekdays      []WeekdaySummaryRow // de lunes a domingo, solo días con ventas
	Totals        PeriodTotals
	Warnings      []IntegrityWarning
}

// GradeBreakdownRow una fila por (producto, variante) con su cantidad disponible.
type GradeBreakdownRow struct {
	Product    Product
	Variant    GradeVariant
	Available  int64
	StockValue decimal.Decimal
}

// GradeBreakdown resultado de GradeStockAnalyzer.Analyze.
type GradeBreakdown struct {
	Rows     []GradeBreakdownRow
	Warnings []IntegrityWarning
}

// AvailableProduct producto con stock estrictamente positivo.
type AvailableProduct struct {
	Product     Product
	Available   int64
	StockValue  decimal.Decimal // Available × UnitCost
	RetailValue decimal.Decimal // Available × UnitPrice
}

// AvailableProducts resultado de AvailableProductFilter.Filter.
type AvailableProducts struct {
	Products []AvailableProduct
	Warnings []IntegrityWarning
}

// DumpProduct producto con sus variantes y entradas de stock al momento del dump.
type DumpProduct struct {
	Product      Product
	Variants     []GradeVariant
	StockEntries []StockEntry
	Available    int64
}

// Dump foto completa del catálogo, grades y stock. Nunca es parcial ni incremental.
type Dump struct {
	ID          string
	GeneratedAt time.Time
	Products    []DumpProduct
	Warnings    []IntegrityWarning
}

// Equal compara el contenido de dos dumps ignorando ID y GeneratedAt.
// Los decimales se comparan por valor (10.0 == 10.00).
func (d *Dump) Equal(o *Dump) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.Products) != len(o.Products) || len(d.Warnings) != len(o.Warnings) {
		return false
	}
	for i := range d.Products {
		if !d.Products[i].equal(o.Products[i]) {
			return false
		}
	}
	for i := range d.Warnings {
		if d.Warnings[i] != o.Warnings[i] {
			return false
		}
	}
	return true
}

func (p DumpProduct) equal(o DumpProduct) bool {
	if !p.Product.Equal(o.Product) || p.Available != o.Available {
		return false
	}
	if len(p.Variants) != len(o.Variants) || len(p.StockEntries) != len(o.StockEntries) {
		return false
	}
	for i := range p.Variants {
		if p.Variants[i] != o.Variants[i] {
			return false
		}
	}
	for i := range p.StockEntries {
		a, b := p.StockEntries[i], o.StockEntries[i]
		if a.ProductID != b.ProductID || a.GradeCode != b.GradeCode || a.Warehouse != b.Warehouse ||
			a.Quantity != b.Quantity || !a.RecordedAt.Equal(b.RecordedAt) {
			return false
		}
	}
	return true
}

// Equal compara dos productos; los precios por valor decimal.
func (p Product) Equal(o Product) bool {
	return p.ID == o.ID && p.Reference == o.Reference && p.Name == o.Name &&
		p.Category == o.Category && p.Unit == o.Unit &&
		p.UnitPrice.Equal(o.UnitPrice) && p.UnitCost.Equal(o.UnitCost)
}
