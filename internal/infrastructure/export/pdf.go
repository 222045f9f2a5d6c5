package export

// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte          │  Generado + N° filas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: encabezado con fondo azul, una fila por registro     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de filas                                      │
//	└─────────────────────────────────────────────────────────────┘

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Encoder ───────────────────────────────────────────────────────────────────

// PDFEncoder tabla en A4 horizontal con Maroto v2. El grid tiene una columna por campo.
type PDFEncoder struct {
	Now func() time.Time
}

func (PDFEncoder) Ext() string { return FormatPDF }

func (e PDFEncoder) Encode(buf *bytes.Buffer, t Table) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	grid := max(len(t.Header), 1)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t, grid, now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(t.Header))
	for _, r := range tableDetailRows(t.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("%d filas", len(t.Rows)), props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	_, err = buf.Write(doc.GetBytes())
	return err
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(t Table, grid int, generatedAt time.Time) core.Row {
	left := grid * 2 / 3
	if left < 1 {
		left = 1
	}
	right := grid - left
	r := row.New(14).Add(
		col.New(left).Add(
			text.New(t.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(t.Name, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
	)
	if right > 0 {
		r.Add(col.New(right).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		))
	}
	return r
}

// tableHeaderRow: cabecera con fondo azul.
func tableHeaderRow(header []string) core.Row {
	cols := make([]core.Col, 0, len(header))
	for _, h := range header {
		cols = append(cols, col.New(1).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: align.Left,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por registro; números alineados a la derecha, filas alternadas.
func tableDetailRows(rows [][]any) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for i, r := range rows {
		cols := make([]core.Col, 0, len(r))
		for _, v := range r {
			a := align.Left
			s := cellString(v)
			switch x := v.(type) {
			case int64:
				a = align.Right
				s = formatMoney(s)
			case decimal.Decimal:
				a = align.Right
				s = formatDecimal(x)
			}
			cols = append(cols, col.New(1).Add(text.New(s, props.Text{
				Size: 7, Align: a, Top: 1, Left: 1, Right: 1,
			})))
		}
		rr := row.New(6).Add(cols...)
		if i%2 == 1 {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, rr)
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

// formatDecimal 2 decimales con coma y miles con punto: 1234.5 → "1.234,50".
func formatDecimal(d decimal.Decimal) string {
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return formatMoney(intPart) + "," + frac
}
