package entity

import "fmt"

// WarningKind clasifica las anomalías no fatales de los datos de origen.
type WarningKind string

const (
	WarningNegativeQuantity WarningKind = "negative_quantity" // cantidad < 0, se recorta a 0
	WarningUnknownProduct   WarningKind = "unknown_product"   // venta o stock de un producto fuera del catálogo
	WarningUnknownGrade     WarningKind = "unknown_grade"     // stock con código de grade no registrado
	WarningMalformedRow     WarningKind = "malformed_row"     // fila que no se pudo mapear a un tipo
)

// IntegrityWarning registro de una fila que viola un invariante esperado.
// Nunca se descarta una fila sin dejar una advertencia.
type IntegrityWarning struct {
	Kind      WarningKind
	Source    string // tabla o consulta de origen
	ProductID int64
	GradeCode string
	Detail    string
}

func (w IntegrityWarning) String() string {
	if w.GradeCode != "" {
		return fmt.Sprintf("%s [%s] producto=%d grade=%s: %s", w.Kind, w.Source, w.ProductID, w.GradeCode, w.Detail)
	}
	return fmt.Sprintf("%s [%s] producto=%d: %s", w.Kind, w.Source, w.ProductID, w.Detail)
}

// CountByKind agrupa advertencias para el resumen del log.
func CountByKind(ws []IntegrityWarning) map[WarningKind]int {
	out := make(map[WarningKind]int, 4)
	for _, w := range ws {
		out[w.Kind]++
	}
	return out
}
