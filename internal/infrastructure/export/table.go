// Package export serializa los resultados de reportes a archivos (csv, json, xlsx, pdf).
//
// Todo resultado se aplana primero a una Table; cada formato solo sabe escribir tablas.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// Nombres base de los artefactos; el sufijo lo agrega Writer.
const (
	NamePeriodReport  = "RelatorioPeriodo"
	NameGradeOutflows = "SaidaGrade"
	NameDailySales    = "VendasDiarias"
	NameWeekdays      = "ResumoDiaSemana"
	NameGradeStock    = "EstoqueGrade"
	NameAvailable     = "ProdutosComEstoque"
	NameDump          = "DumpCompleto"
)

// Table datos tabulares listos para escribir. Las celdas son string, int64 o decimal.Decimal.
type Table struct {
	Name   string
	Title  string
	Header []string
	Rows   [][]any
}

// PeriodReportTable una fila por ReportRow.
func PeriodReportTable(rep *entity.PeriodReport) Table {
	t := Table{
		Name:  NamePeriodReport,
		Title: "Relatório do período " + rep.Period.String(),
		Header: []string{
			"id", "referencia", "nome", "categoria", "unidade",
			"qtd_vendida", "estoque_fim", "valor_vendas", "valor_estoque",
		},
		Rows: make([][]any, 0, len(rep.Rows)),
	}
	for _, r := range rep.Rows {
		t.Rows = append(t.Rows, []any{
			r.Product.ID, r.Product.Reference, r.Product.Name, r.Product.Category, r.Product.Unit,
			r.QuantitySold, r.StockAtPeriodEnd, r.SalesValue, r.StockValue,
		})
	}
	return t
}

// GradeOutflowsTable salidas por variante dentro del período.
func GradeOutflowsTable(rep *entity.PeriodReport) Table {
	t := Table{
		Name:   NameGradeOutflows,
		Title:  "Saídas por grade " + rep.Period.String(),
		Header: []string{"id", "grade", "qtd_vendida"},
		Rows:   make([][]any, 0, len(rep.GradeOutflows)),
	}
	for _, o := range rep.GradeOutflows {
		t.Rows = append(t.Rows, []any{o.ProductID, o.GradeCode, o.Quantity})
	}
	return t
}

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// DailySalesTable una fila por día con ventas.
func DailySalesTable(rep *entity.PeriodReport) Table {
	t := Table{
		Name:   NameDailySales,
		Title:  "Vendas diárias " + rep.Period.String(),
		Header: []string{"data", "dia_semana", "qtd_vendida", "qtd_produtos", "valor_vendas", "valor_medio"},
		Rows:   make([][]any, 0, len(rep.Daily)),
	}
	for _, d := range rep.Daily {
		t.Rows = append(t.Rows, []any{
			d.Date.Format(time.DateOnly), weekdayNames[d.Date.Weekday()],
			d.QuantitySold, int64(d.Products), d.SalesValue, d.AverageValue(),
		})
	}
	return t
}

// WeekdaySummaryTable acumulado por día de semana y una última fila con los totales del período.
func WeekdaySummaryTable(rep *entity.PeriodReport) Table {
	t := Table{
		Name:   NameWeekdays,
		Title:  "Resumo por dia da semana " + rep.Period.String(),
		Header: []string{"dia_semana", "dias", "qtd_vendida", "valor_vendas", "valor_medio"},
		Rows:   make([][]any, 0, len(rep.Weekdays)+1),
	}
	days := 0
	for _, w := range rep.Weekdays {
		days += w.Days
		t.Rows = append(t.Rows, []any{weekdayNames[w.Weekday], int64(w.Days), w.QuantitySold, w.SalesValue, w.AverageValue()})
	}
	tot := rep.Totals
	t.Rows = append(t.Rows, []any{
		"Total", int64(days), tot.QuantitySold, tot.SalesValue, entity.UnitAverage(tot.SalesValue, tot.QuantitySold),
	})
	return t
}

// GradeStockTable una fila por (producto, variante), incluidas las variantes en cero.
func GradeStockTable(b *entity.GradeBreakdown) Table {
	t := Table{
		Name:  NameGradeStock,
		Title: "Estoque por grade",
		Header: []string{
			"id", "referencia", "nome", "grade", "dimensao", "descricao_grade",
			"qtd_disponivel", "valor_estoque",
		},
		Rows: make([][]any, 0, len(b.Rows)),
	}
	for _, r := range b.Rows {
		t.Rows = append(t.Rows, []any{
			r.Product.ID, r.Product.Reference, r.Product.Name,
			r.Variant.Code, r.Variant.Dimension, r.Variant.Label,
			r.Available, r.StockValue,
		})
	}
	return t
}

// AvailableTable productos con stock positivo.
func AvailableTable(a *entity.AvailableProducts) Table {
	t := Table{
		Name:  NameAvailable,
		Title: "Produtos com estoque",
		Header: []string{
			"id", "referencia", "nome", "categoria", "unidade", "preco", "custo",
			"qtd_disponivel", "valor_custo", "valor_varejo",
		},
		Rows: make([][]any, 0, len(a.Products)),
	}
	for _, p := range a.Products {
		t.Rows = append(t.Rows, []any{
			p.Product.ID, p.Product.Reference, p.Product.Name, p.Product.Category,
			p.Product.Unit, p.Product.UnitPrice, p.Product.UnitCost,
			p.Available, p.StockValue, p.RetailValue,
		})
	}
	return t
}

// DumpTable aplana el dump a una fila por entrada de stock; los productos sin entradas
// aparecen una vez con cantidad 0 para que el catálogo quede completo.
func DumpTable(d *entity.Dump) Table {
	t := Table{
		Name:  NameDump,
		Title: "Dump " + d.ID,
		Header: []string{
			"id", "referencia", "nome", "categoria", "unidade", "preco", "custo",
			"grades", "grade", "deposito", "quantidade", "registrado_em",
		},
	}
	for _, p := range d.Products {
		codes := ""
		for i, v := range p.Variants {
			if i > 0 {
				codes += "|"
			}
			codes += v.Code
		}
		prefix := []any{
			p.Product.ID, p.Product.Reference, p.Product.Name, p.Product.Category,
			p.Product.Unit, p.Product.UnitPrice, p.Product.UnitCost, codes,
		}
		if len(p.StockEntries) == 0 {
			t.Rows = append(t.Rows, append(append([]any{}, prefix...), "", "", int64(0), ""))
			continue
		}
		for _, e := range p.StockEntries {
			t.Rows = append(t.Rows, append(append([]any{}, prefix...),
				e.GradeCode, e.Warehouse, e.Quantity, e.RecordedAt.UTC().Format(time.RFC3339)))
		}
	}
	return t
}

// cellString representación textual de una celda (csv, pdf, Sheets).
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case decimal.Decimal:
		return x.StringFixed(2)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// StringRows celdas como texto, en el orden de la tabla.
func (t Table) StringRows() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		line := make([]string, len(r))
		for i, v := range r {
			line[i] = cellString(v)
		}
		out = append(out, line)
	}
	return out
}
