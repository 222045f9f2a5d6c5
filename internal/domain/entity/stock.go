package entity

import (
	"time"
)

// StockEntry representa un saldo parcial de un producto (o de una variante) en una bodega.
// Puede haber varias filas por producto; StockResolver las suma.
// GradeCode vacío indica stock a nivel de producto (sin grade).
type StockEntry struct {
	ProductID  int64
	GradeCode  string
	Warehouse  string
	Quantity   int64
	RecordedAt time.Time
}

// SalesRecord representa una salida por venta de un producto dentro de un período.
type SalesRecord struct {
	ProductID int64
	GradeCode string
	Quantity  int64
	SoldAt    time.Time
}
