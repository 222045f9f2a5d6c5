package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
)

// Formatos soportados.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Encoder escribe una tabla en un formato.
type Encoder interface {
	Encode(buf *bytes.Buffer, t Table) error
	Ext() string
}

// EncoderFor resuelve el encoder de un formato.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return CSVEncoder{}, nil
	case FormatJSON:
		return JSONEncoder{}, nil
	case FormatXLSX:
		return XLSXEncoder{}, nil
	case FormatPDF:
		return PDFEncoder{Now: time.Now}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
}

// Writer escribe artefactos bajo un directorio. Cada archivo se escribe a un temporal y se
// renombra al final: un fallo no deja artefactos a medias. Batch extiende lo mismo a varias
// tablas.
type Writer struct {
	dir      string
	encoders []Encoder
}

// NewWriter valida los formatos y crea el directorio si no existe.
func NewWriter(dir string, formats []string) (*Writer, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: sin formatos", domain.ErrUnknownFormat)
	}
	encoders := make([]Encoder, 0, len(formats))
	for _, f := range formats {
		enc, err := EncoderFor(f)
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, enc)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: crear %s: %w", dir, err)
	}
	return &Writer{dir: dir, encoders: encoders}, nil
}

// FileName nombre del artefacto: <Name>[_<suffix>].<ext>.
func FileName(name, suffix, ext string) string {
	if suffix == "" {
		return name + "." + ext
	}
	return name + "_" + suffix + "." + ext
}

// Write codifica la tabla en cada formato configurado y devuelve las rutas escritas.
func (w *Writer) Write(t Table, suffix string) ([]string, error) {
	b := w.Begin()
	if _, err := b.Add(t, suffix); err != nil {
		b.Rollback()
		return nil, err
	}
	return b.Commit()
}

// Begin abre un lote. Los artefactos de un lote aparecen en el directorio todos juntos en
// Commit, o ninguno.
func (w *Writer) Begin() *Batch {
	return &Batch{w: w}
}

// Batch artefactos preparados en temporales dentro del directorio de salida.
type Batch struct {
	w      *Writer
	staged []staged
}

type staged struct {
	tmp  string
	path string
}

// Add codifica la tabla en memoria en todos los formatos y deja cada archivo en un temporal.
// Devuelve las rutas finales que tendrán los artefactos.
func (b *Batch) Add(t Table, suffix string) ([]string, error) {
	bufs := make([]*bytes.Buffer, len(b.w.encoders))
	for i, enc := range b.w.encoders {
		bufs[i] = &bytes.Buffer{}
		if err := enc.Encode(bufs[i], t); err != nil {
			return nil, fmt.Errorf("export.%s %s: %w", enc.Ext(), t.Name, err)
		}
	}

	paths := make([]string, 0, len(b.w.encoders))
	for i, enc := range b.w.encoders {
		path := filepath.Join(b.w.dir, FileName(t.Name, suffix, enc.Ext()))
		tmp, err := writeTemp(path, bufs[i].Bytes())
		if err != nil {
			return nil, err
		}
		b.staged = append(b.staged, staged{tmp: tmp, path: path})
		paths = append(paths, path)
	}
	return paths, nil
}

// Commit renombra los temporales a sus rutas finales. Si un renombrado falla se borran los
// artefactos ya renombrados y los temporales pendientes.
func (b *Batch) Commit() ([]string, error) {
	done := make([]string, 0, len(b.staged))
	for i, s := range b.staged {
		if err := os.Rename(s.tmp, s.path); err != nil {
			for _, p := range done {
				_ = os.Remove(p)
			}
			for _, rest := range b.staged[i:] {
				_ = os.Remove(rest.tmp)
			}
			b.staged = nil
			return nil, fmt.Errorf("export: renombrar %s: %w", s.path, err)
		}
		done = append(done, s.path)
	}
	b.staged = nil
	return done, nil
}

// Rollback descarta los temporales. Sin efecto después de Commit.
func (b *Batch) Rollback() {
	for _, s := range b.staged {
		_ = os.Remove(s.tmp)
	}
	b.staged = nil
}

func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("export: temporal: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("export: escribir %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("export: cerrar %s: %w", path, err)
	}
	return name, nil
}
