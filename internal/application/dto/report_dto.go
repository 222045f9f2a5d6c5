package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// PeriodRequest parámetros para GET /api/reports/period.
type PeriodRequest struct {
	Granularity string `query:"granularity"` // daily|weekly|monthly; por defecto REPORT_GRANULARITY
	Date        string `query:"date"`        // YYYY-MM-DD; período que contiene la fecha
	Start       string `query:"start"`       // YYYY-MM-DD, inclusivo
	End         string `query:"end"`         // YYYY-MM-DD, exclusivo
}

// ── Comunes ───────────────────────────────────────────────────────────────────

// ProductDTO producto del catálogo.
type ProductDTO struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// WarningDTO advertencia de integridad.
type WarningDTO struct {
	Kind      string `json:"kind"`
	Source    string `json:"source"`
	ProductID int64  `json:"product_id"`
	GradeCode string `json:"grade_code,omitempty"`
	Detail    string `json:"detail"`
}

// PeriodDTO rango [start, end) del reporte.
type PeriodDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"` // exclusivo
	Granularity string `json:"granularity"`
}

// ── Reporte de período ────────────────────────────────────────────────────────

// ReportRowDTO una fila por producto.
type ReportRowDTO struct {
	Product          ProductDTO      `json:"product"`
	QuantitySold     int64           `json:"quantity_sold"`
	StockAtPeriodEnd int64           `json:"stock_at_period_end"`
	SalesValue       decimal.Decimal `json:"sales_value"`
	StockValue       decimal.Decimal `json:"stock_value"`
}

// GradeOutflowDTO salidas de una variante en el período.
type GradeOutflowDTO struct {
	ProductID int64  `json:"product_id"`
	GradeCode string `json:"grade_code"`
	Quantity  int64  `json:"quantity"`
}

// DailySalesDTO ventas de un día del período.
type DailySalesDTO struct {
	Date         string          `json:"date"`
	Weekday      string          `json:"weekday"`
	QuantitySold int64           `json:"quantity_sold"`
	Products     int             `json:"products"`
	SalesValue   decimal.Decimal `json:"sales_value"`
	AverageValue decimal.Decimal `json:"average_value"`
}

// WeekdaySummaryDTO acumulado por día de semana.
type WeekdaySummaryDTO struct {
	Weekday      string          `json:"weekday"`
	Days         int             `json:"days"`
	QuantitySold int64           `json:"quantity_sold"`
	SalesValue   decimal.Decimal `json:"sales_value"`
	AverageValue decimal.Decimal `json:"average_value"`
}

// PeriodTotalsDTO totales del período.
type PeriodTotalsDTO struct {
	QuantitySold     int64           `json:"quantity_sold"`
	SalesValue       decimal.Decimal `json:"sales_value"`
	StockAtPeriodEnd int64           `json:"stock_at_period_end"`
	StockValue       decimal.Decimal `json:"stock_value"`
}

// PeriodReportDTO respuesta de GET /api/reports/period.
type PeriodReportDTO struct {
	Period        PeriodDTO           `json:"period"`
	Rows          []ReportRowDTO      `json:"rows"`
	GradeOutflows []GradeOutflowDTO   `json:"grade_outflows"`
	Daily         []DailySalesDTO     `json:"daily"`
	Weekdays      []WeekdaySummaryDTO `json:"weekdays"`
	Totals        PeriodTotalsDTO     `json:"totals"`
	Warnings      []WarningDTO        `json:"warnings"`
}

// ── Stock por grade ───────────────────────────────────────────────────────────

// GradeRowDTO una fila por (producto, variante).
type GradeRowDTO struct {
	ProductID  int64           `json:"product_id"`
	Reference  string          `json:"reference"`
	Name       string          `json:"name"`
	GradeCode  string          `json:"grade_code"`
	Dimension  string          `json:"dimension"`
	Label      string          `json:"label"`
	Available  int64           `json:"available"`
	StockValue decimal.Decimal `json:"stock_value"`
}

// GradeBreakdownDTO respuesta de GET /api/reports/grades.
type GradeBreakdownDTO struct {
	Rows     []GradeRowDTO `json:"rows"`
	Warnings []WarningDTO  `json:"warnings"`
}

// ── Disponibles ───────────────────────────────────────────────────────────────

// AvailableProductDTO producto con stock positivo.
type AvailableProductDTO struct {
	Product     ProductDTO      `json:"product"`
	Available   int64           `json:"available"`
	StockValue  decimal.Decimal `json:"stock_value"`
	RetailValue decimal.Decimal `json:"retail_value"`
}

// AvailableProductsDTO respuesta de GET /api/reports/available.
type AvailableProductsDTO struct {
	Products []AvailableProductDTO `json:"products"`
	Warnings []WarningDTO          `json:"warnings"`
}

// ── Dump ──────────────────────────────────────────────────────────────────────

// VariantDTO variante (grade) de un producto.
type VariantDTO struct {
	Code      string `json:"code"`
	Dimension string `json:"dimension"`
	Label     string `json:"label"`
}

// StockEntryDTO fila de stock ya recortada.
type StockEntryDTO struct {
	GradeCode  string    `json:"grade_code,omitempty"`
	Warehouse  string    `json:"warehouse"`
	Quantity   int64     `json:"quantity"`
	RecordedAt time.Time `json:"recorded_at"`
}

// DumpProductDTO producto con variantes y stock.
type DumpProductDTO struct {
	Product   ProductDTO      `json:"product"`
	Variants  []VariantDTO    `json:"variants"`
	Stock     []StockEntryDTO `json:"stock"`
	Available int64           `json:"available"`
}

// DumpDTO respuesta de GET /api/reports/dump.
type DumpDTO struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Products    []DumpProductDTO `json:"products"`
	Warnings    []WarningDTO     `json:"warnings"`
}

// ── Mapeo desde entidades ─────────────────────────────────────────────────────

func FromProduct(p entity.Product) ProductDTO {
	return ProductDTO{
		ID: p.ID, Reference: p.Reference, Name: p.Name, Category: p.Category,
		Unit: p.Unit, UnitPrice: p.UnitPrice, UnitCost: p.UnitCost,
	}
}

func FromWarnings(ws []entity.IntegrityWarning) []WarningDTO {
	out := make([]WarningDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningDTO{
			Kind: string(w.Kind), Source: w.Source, ProductID: w.ProductID,
			GradeCode: w.GradeCode, Detail: w.Detail,
		})
	}
	return out
}

func FromPeriod(p entity.Period) PeriodDTO {
	return PeriodDTO{
		Start:       p.Start.Format(time.DateOnly),
		End:         p.End.Format(time.DateOnly),
		Granularity: string(p.Granularity),
	}
}

func FromPeriodReport(r *entity.PeriodReport) PeriodReportDTO {
	out := PeriodReportDTO{
		Period:        FromPeriod(r.Period),
		Rows:          make([]ReportRowDTO, 0, len(r.Rows)),
		GradeOutflows: make([]GradeOutflowDTO, 0, len(r.GradeOutflows)),
		Daily:         make([]DailySalesDTO, 0, len(r.Daily)),
		Weekdays:      make([]WeekdaySummaryDTO, 0, len(r.Weekdays)),
		Totals: PeriodTotalsDTO{
			QuantitySold: r.Totals.QuantitySold, SalesValue: r.Totals.SalesValue,
			StockAtPeriodEnd: r.Totals.StockAtPeriodEnd, StockValue: r.Totals.StockValue,
		},
		Warnings: FromWarnings(r.Warnings),
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, ReportRowDTO{
			Product:          FromProduct(row.Product),
			QuantitySold:     row.QuantitySold,
			StockAtPeriodEnd: row.StockAtPeriodEnd,
			SalesValue:       row.SalesValue,
			StockValue:       row.StockValue,
		})
	}
	for _, o := range r.GradeOutflows {
		out.GradeOutflows = append(out.GradeOutflows, GradeOutflowDTO{ProductID: o.ProductID, GradeCode: o.GradeCode, Quantity: o.Quantity})
	}
	for _, d := range r.Daily {
		out.Daily = append(out.Daily, DailySalesDTO{
			Date: d.Date.Format(time.DateOnly), Weekday: d.Date.Weekday().String(),
			QuantitySold: d.QuantitySold, Products: d.Products,
			SalesValue: d.SalesValue, AverageValue: d.AverageValue(),
		})
	}
	for _, w := range r.Weekdays {
		out.Weekdays = append(out.Weekdays, WeekdaySummaryDTO{
			Weekday: w.Weekday.String(), Days: w.Days, QuantitySold: w.QuantitySold,
			SalesValue: w.SalesValue, AverageValue: w.AverageValue(),
		})
	}
	return out
}

func FromGradeBreakdown(b *entity.GradeBreakdown) GradeBreakdownDTO {
	out := GradeBreakdownDTO{Rows: make([]GradeRowDTO, 0, len(b.Rows)), Warnings: FromWarnings(b.Warnings)}
	for _, r := range b.Rows {
		out.Rows = append(out.Rows, GradeRowDTO{
			ProductID: r.Product.ID, Reference: r.Product.Reference, Name: r.Product.Name,
			GradeCode: r.Variant.Code, Dimension: r.Variant.Dimension, Label: r.Variant.Label,
			Available: r.Available, StockValue: r.StockValue,
		})
	}
	return out
}

func FromAvailable(a *entity.AvailableProducts) AvailableProductsDTO {
	out := AvailableProductsDTO{Products: make([]AvailableProductDTO, 0, len(a.Products)), Warnings: FromWarnings(a.Warnings)}
	for _, p := range a.Products {
		out.Products = append(out.Products, AvailableProductDTO{
			Product: FromProduct(p.Product), Available: p.Available,
			StockValue: p.StockValue, RetailValue: p.RetailValue,
		})
	}
	return out
}

func FromDump(d *entity.Dump) DumpDTO {
	out := DumpDTO{
		ID:          d.ID,
		GeneratedAt: d.GeneratedAt,
		Products:    make([]DumpProductDTO, 0, len(d.Products)),
		Warnings:    FromWarnings(d.Warnings),
	}
	for _, p := range d.Products {
		item := DumpProductDTO{
			Product:   FromProduct(p.Product),
			Variants:  make([]VariantDTO, 0, len(p.Variants)),
			Stock:     make([]StockEntryDTO, 0, len(p.StockEntries)),
			Available: p.Available,
		}
		for _, v := range p.Variants {
			item.Variants = append(item.Variants, VariantDTO{Code: v.Code, Dimension: v.Dimension, Label: v.Label})
		}
		for _, e := range p.StockEntries {
			item.Stock = append(item.Stock, StockEntryDTO{GradeCode: e.GradeCode, Warehouse: e.Warehouse, Quantity: e.Quantity, RecordedAt: e.RecordedAt})
		}
		out.Products = append(out.Products, item)
	}
	return out
}
