package logger

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// Config opciones para el logger.
type Config struct {
	Env    string // development -> consola legible; production -> JSON
	Level  string // trace, debug, info, warn, error
	App    string
	RunID  string    // vacío: se genera uno por invocación
	Output io.Writer // por defecto os.Stdout
}

// Logger wrapper sobre zerolog para inyección y consistencia.
type Logger struct {
	zl    zerolog.Logger
	runID string
}

// New crea un logger estructurado. En development usa salida legible; en production JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	level := parseLevel(cfg.Level)
	ctx := zerolog.New(w).Level(level).With().Timestamp().Str("run_id", runID)
	if cfg.App != "" {
		ctx = ctx.Str("app", cfg.App)
	}
	zl := ctx.Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl, runID: runID}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// RunID identificador de la invocación, incluido en cada línea.
func (l *Logger) RunID() string { return l.runID }

// Warnings resume las advertencias de integridad de una operación: una línea warn con el
// conteo por tipo y una línea debug por advertencia. Sin advertencias no escribe nada.
func (l *Logger) Warnings(op string, ws []entity.IntegrityWarning) {
	if len(ws) == 0 {
		return
	}
	counts := zerolog.Dict()
	for kind, n := range entity.CountByKind(ws) {
		counts = counts.Int(string(kind), n)
	}
	l.zl.Warn().Str("op", op).Int("total", len(ws)).Dict("by_kind", counts).
		Msg("advertencias de integridad de datos")
	for _, w := range ws {
		l.zl.Debug().Str("op", op).
			Str("kind", string(w.Kind)).
			Str("source", w.Source).
			Int64("product_id", w.ProductID).
			Str("grade", w.GradeCode).
			Msg(w.Detail)
	}
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
