package export

import (
	"bytes"
	"encoding/json"
)

// JSONEncoder un arreglo de objetos por fila, claves en el orden del encabezado.
// Los decimales salen como string (comportamiento de shopspring/decimal).
type JSONEncoder struct{}

func (JSONEncoder) Ext() string { return FormatJSON }

func (JSONEncoder) Encode(buf *bytes.Buffer, t Table) error {
	buf.WriteString("[")
	for i, r := range t.Rows {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for j, v := range r {
			if j > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(t.Header[j])
			if err != nil {
				return err
			}
			val, err := json.Marshal(v)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteString("}")
	}
	if len(t.Rows) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return nil
}
