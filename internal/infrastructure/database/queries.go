package database

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

// Tablas de origen; también se usan como Source de las advertencias.
const (
	tableProducts = "products"
	tableGrades   = "product_grades"
	tableStock    = "stock_entries"
	tableSales    = "sales"
)

// Dialect arma las consultas con el formato de placeholder de cada driver.
type Dialect struct {
	Driver string
	sb     sq.StatementBuilderType
}

// NewDialect postgres usa $1..$n; MySQL y Firebird usan ?.
func NewDialect(driver string) Dialect {
	ph := sq.PlaceholderFormat(sq.Question)
	if driver == config.DriverPostgres {
		ph = sq.Dollar
	}
	return Dialect{Driver: driver, sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

// productsQuery productos activos; el filtro de activos se aplica en SQL.
func (d Dialect) productsQuery() (string, []any, error) {
	return d.sb.
		Select("id", "reference", "name", "category", "unit", "unit_price", "unit_cost").
		From(tableProducts).
		Where(sq.Eq{"active": true}).
		OrderBy("id").
		ToSql()
}

// gradesQuery variantes de un producto, o de todos si productID es nil.
func (d Dialect) gradesQuery(productID *int64) (string, []any, error) {
	q := d.sb.
		Select("product_id", "code", "dimension", "label").
		From(tableGrades).
		OrderBy("product_id", "code")
	if productID != nil {
		q = q.Where(sq.Eq{"product_id": *productID})
	}
	return q.ToSql()
}

// stockQuery entradas de stock. Las filas de ajuste de balance (excluded_from_balance)
// no cuentan para el saldo y se descartan en SQL.
func (d Dialect) stockQuery(productID *int64, asOf *time.Time) (string, []any, error) {
	q := d.sb.
		Select("product_id", "grade_code", "warehouse", "quantity", "recorded_at").
		From(tableStock).
		Where(sq.Eq{"excluded_from_balance": false}).
		OrderBy("product_id", "grade_code", "warehouse", "recorded_at")
	if productID != nil {
		q = q.Where(sq.Eq{"product_id": *productID})
	}
	if asOf != nil {
		q = q.Where(sq.LtOrEq{"recorded_at": *asOf})
	}
	return q.ToSql()
}

// salesQuery ventas con start <= sold_at < end.
func (d Dialect) salesQuery(start, end time.Time) (string, []any, error) {
	return d.sb.
		Select("product_id", "grade_code", "quantity", "sold_at").
		From(tableSales).
		Where(sq.GtOrEq{"sold_at": start}).
		Where(sq.Lt{"sold_at": end}).
		OrderBy("sold_at", "product_id").
		ToSql()
}
