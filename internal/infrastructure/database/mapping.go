package database

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// TextDecoder convierte columnas de texto a UTF-8. Las bases heredadas guardan texto en
// WIN1252, ISO8859_1 o DOS850; un valor que ya es UTF-8 válido se deja igual.
type TextDecoder struct {
	enc encoding.Encoding // nil: solo UTF-8
}

// NewTextDecoder resuelve el charset configurado (DB_CHARSET).
func NewTextDecoder(charset string) (*TextDecoder, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(charset), "-", "")) {
	case "", "UTF8", "UNICODE_FSS", "NONE":
		return &TextDecoder{}, nil
	case "WIN1252", "WINDOWS1252", "CP1252":
		return &TextDecoder{enc: charmap.Windows1252}, nil
	case "ISO8859_1", "ISO88591", "LATIN1":
		return &TextDecoder{enc: charmap.ISO8859_1}, nil
	case "DOS850", "CP850", "IBM850":
		return &TextDecoder{enc: charmap.CodePage850}, nil
	}
	return nil, &domain.ConfigurationError{Fields: []string{fmt.Sprintf("DB_CHARSET: %q no soportado", charset)}}
}

// Text decodifica y recorta el relleno de columnas CHAR.
func (d *TextDecoder) Text(b []byte) string {
	if d == nil || d.enc == nil || utf8.Valid(b) {
		return strings.TrimSpace(string(b))
	}
	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.TrimSpace(string(b))
	}
	return strings.TrimSpace(string(out))
}

// numeric es el destino de Scan de columnas NUMERIC, INTEGER y SMALLINT. Cada driver
// entrega un tipo distinto: pgx decimal.Decimal o string, mysql []byte y firebirdsql
// decimal.Decimal, int32 o int16 según la escala de la columna.
type numeric struct {
	d     decimal.Decimal
	valid bool
}

var _ sql.Scanner = (*numeric)(nil)

func (n *numeric) Scan(src any) error {
	n.d, n.valid = decimal.Zero, false
	var err error
	switch v := src.(type) {
	case nil:
		return nil
	case decimal.Decimal:
		n.d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		n.d = *v
	case int16:
		n.d = decimal.NewFromInt(int64(v))
	case int32:
		n.d = decimal.NewFromInt32(v)
	case int64:
		n.d = decimal.NewFromInt(v)
	case int:
		n.d = decimal.NewFromInt(int64(v))
	case float32:
		n.d = decimal.NewFromFloat32(v)
	case float64:
		n.d = decimal.NewFromFloat(v)
	case []byte:
		n.d, err = decimal.NewFromString(strings.TrimSpace(string(v)))
	case string:
		n.d, err = decimal.NewFromString(strings.TrimSpace(v))
	default:
		return fmt.Errorf("numeric: tipo %T no soportado", src)
	}
	if err != nil {
		return fmt.Errorf("numeric: %w", err)
	}
	n.valid = true
	return nil
}

// quantity convierte una cantidad numérica cruda a unidades enteras.
// NULL o fracciones no son cantidades válidas de unidades.
func quantity(v numeric) (int64, error) {
	if !v.valid {
		return 0, fmt.Errorf("cantidad nula")
	}
	if !v.d.IsInteger() {
		return 0, fmt.Errorf("cantidad %s no es entera", v.d.String())
	}
	return v.d.IntPart(), nil
}

// price NULL se interpreta como 0; el caller deja advertencia.
func price(v numeric) (decimal.Decimal, bool) {
	if !v.valid {
		return decimal.Zero, false
	}
	return v.d, true
}

func malformed(source string, productID int64, grade string, format string, args ...any) entity.IntegrityWarning {
	return entity.IntegrityWarning{
		Kind:      entity.WarningMalformedRow,
		Source:    source,
		ProductID: productID,
		GradeCode: grade,
		Detail:    fmt.Sprintf(format, args...),
	}
}
