package export

import (
	"bytes"
	"encoding/csv"
)

// CSVEncoder separador ';' y decimales con punto, como las planillas que consume el área de BI.
type CSVEncoder struct{}

func (CSVEncoder) Ext() string { return FormatCSV }

func (CSVEncoder) Encode(buf *bytes.Buffer, t Table) error {
	w := csv.NewWriter(buf)
	w.Comma = ';'
	if err := w.Write(t.Header); err != nil {
		return err
	}
	if err := w.WriteAll(t.StringRows()); err != nil {
		return err
	}
	return w.Error()
}
