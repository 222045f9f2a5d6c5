package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto activo del catálogo.
// Se lee fresco de la fuente en cada ejecución y no se modifica durante la misma.
type Product struct {
	ID        int64
	Reference string // referencia comercial (código de barras o referencia del proveedor)
	Name      string
	Category  string
	Unit      string
	UnitPrice decimal.Decimal // precio de venta
	UnitCost  decimal.Decimal // precio de costo
}

// GradeVariant es una variante (talla, color, ...) de un producto con stock propio.
// Dimension es una etiqueta opaca: no se asume un conjunto fijo de dimensiones.
type GradeVariant struct {
	ProductID int64
	Code      string
	Dimension string
	Label     string
}
