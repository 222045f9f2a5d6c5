package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrDataAccess      = errors.New("fuente de datos no disponible")
	ErrConfiguration   = errors.New("configuración inválida")
	ErrDataIntegrity   = errors.New("advertencias de integridad de datos")
	ErrInvalidPeriod   = errors.New("período inválido")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnknownFormat   = errors.New("formato de salida desconocido")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrPublishDisabled = errors.New("publicación en hojas de cálculo no configurada")
)

// DataAccessError envuelve cualquier fallo de conexión o consulta contra la fuente de datos.
// Aborta la operación en curso; el núcleo nunca reintenta.
type DataAccessError struct {
	Op  string // p. ej. "catalog.ListProducts"
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrDataAccess).
func (e *DataAccessError) Is(target error) bool { return target == ErrDataAccess }

// NewDataAccessError construye el error; devuelve nil si err es nil.
func NewDataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return err
	}
	return &DataAccessError{Op: op, Err: err}
}

// ConfigurationError lista todos los campos faltantes o mal formados.
type ConfigurationError struct {
	Fields []string
}

func (e *ConfigurationError) Error() string {
	return "configuración inválida: " + strings.Join(e.Fields, "; ")
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// IntegrityError escala las advertencias de integridad a error (modo estricto).
type IntegrityError struct {
	Op    string
	Count int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %d advertencias de integridad (modo estricto)", e.Op, e.Count)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrDataIntegrity }
