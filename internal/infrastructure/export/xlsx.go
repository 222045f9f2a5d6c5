package export

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// XLSXEncoder una hoja por tabla, encabezado en negrita y celdas numéricas nativas.
type XLSXEncoder struct{}

func (XLSXEncoder) Ext() string { return FormatXLSX }

func (XLSXEncoder) Encode(buf *bytes.Buffer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return err
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(len(t.Header), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range t.Rows {
		cells := make([]any, len(r))
		for j, v := range r {
			if d, ok := v.(decimal.Decimal); ok {
				cells[j] = d.InexactFloat64()
				continue
			}
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	_, err = f.WriteTo(buf)
	return err
}

// sheetName Excel limita el nombre de hoja a 31 caracteres.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
