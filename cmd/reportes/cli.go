package main

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Inventario-reportes/internal/application/reporting"
	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/export"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/sheets"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
	"github.com/jhoicas/Inventario-reportes/pkg/logger"
)

// openFunc abre la fuente de datos; en tests se reemplaza por una fuente en memoria.
type openFunc func(ctx context.Context, cfg config.DBConfig) (repository.DataSource, func(), error)

// cli estado de una invocación. La configuración se carga una vez en PersistentPreRunE.
type cli struct {
	open openFunc
	now  func() time.Time

	cfg    *config.Config
	log    *logger.Logger
	logOut io.Writer
	rec    *metrics.Recorder
	loc    *time.Location

	// flags globales
	outDir  string
	formats string
	publish bool
	strict  bool
}

func newCLI(open openFunc) *cli {
	return &cli{open: open, now: time.Now}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reportes",
		Short:         "Reportes de inventario: período, stock por grade, disponibles y dump",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
	}
	root.PersistentFlags().StringVar(&c.outDir, "out", "", "directorio de salida (por defecto EXPORT_DIR)")
	root.PersistentFlags().StringVar(&c.formats, "format", "", "formatos separados por coma: csv,json,xlsx,pdf (por defecto EXPORT_FORMAT)")
	root.PersistentFlags().BoolVar(&c.publish, "publish", false, "publicar también en Google Sheets")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "advertencias de integridad terminan con código 4 (REPORT_STRICT_INTEGRITY)")

	root.AddCommand(
		c.periodCmd(),
		c.gradesCmd(),
		c.availableCmd(),
		c.dumpCmd(),
		c.allCmd(),
		c.serveCmd(),
		c.migrateCmd(),
	)
	return root
}

// setup carga y valida la configuración antes de abrir cualquier conexión.
func (c *cli) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.outDir != "" {
		cfg.Export.Dir = c.outDir
	}
	if c.formats != "" {
		cfg.Export.Format = c.formats
	}
	if c.strict {
		cfg.Report.StrictIntegrity = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.publish && !cfg.Sheets.Enabled() {
		return &domain.ConfigurationError{Fields: []string{"--publish requiere SHEETS_CREDENTIALS_FILE y SHEETS_SPREADSHEET_ID"}}
	}
	loc, err := cfg.Report.Location()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.loc = loc
	c.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name, Output: c.logOut})
	c.rec = metrics.NewRecorder()
	c.log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando")
	return nil
}

// finish empuja las métricas de la corrida, haya fallado o no.
func (c *cli) finish(ctx context.Context) {
	if c.cfg == nil || c.rec == nil {
		return
	}
	if err := c.rec.Push(ctx, c.cfg.Metrics.PushgatewayURL, c.cfg.Metrics.Job, c.log.RunID()); err != nil {
		c.log.Warn().Err(err).Msg("no se pudieron publicar las métricas")
	}
}

// service abre la fuente y construye los casos de uso; closeFn libera el pool.
func (c *cli) service(ctx context.Context) (*reporting.Service, func(), error) {
	ds, closeFn, err := c.open(ctx, c.cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return reporting.NewService(ds), closeFn, nil
}

func (c *cli) defaultGranularity() entity.Granularity {
	g, err := entity.ParseGranularity(c.cfg.Report.Granularity)
	if err != nil {
		return entity.GranularityMonthly
	}
	return g
}

// ── Resultado de una operación ────────────────────────────────────────────────

// result tablas listas para exportar más lo necesario para el log y el modo estricto.
type result struct {
	op       string
	suffix   string
	tables   []export.Table
	warnings []entity.IntegrityWarning
}

// emit aplica el modo estricto y, si pasa, escribe y publica los artefactos.
// Con varios resultados nada se escribe hasta que todos pasan la verificación.
func (c *cli) emit(ctx context.Context, results ...*result) error {
	for _, r := range results {
		c.log.Warnings(r.op, r.warnings)
		if c.cfg.Report.StrictIntegrity && len(r.warnings) > 0 {
			return &domain.IntegrityError{Op: r.op, Count: len(r.warnings)}
		}
	}

	w, err := export.NewWriter(c.cfg.Export.Dir, c.cfg.Export.Formats())
	if err != nil {
		return err
	}
	var pub *sheets.Publisher
	if c.publish {
		if pub, err = sheets.NewPublisher(ctx, c.cfg.Sheets); err != nil {
			return err
		}
	}

	// Todos los artefactos quedan en temporales hasta que las tablas se codificaron y publicaron.
	batch := w.Begin()
	defer batch.Rollback()
	for _, r := range results {
		for _, t := range r.tables {
			paths, err := batch.Add(t, r.suffix)
			if err != nil {
				return err
			}
			c.log.Debug().Str("op", r.op).Strs("files", paths).Int("rows", len(t.Rows)).Msg("artefacto preparado")
			if pub != nil {
				if err := pub.Publish(ctx, t, ""); err != nil {
					return err
				}
				c.log.Info().Str("op", r.op).Str("table", t.Name).Msg("publicado en Google Sheets")
			}
		}
	}
	paths, err := batch.Commit()
	if err != nil {
		return err
	}
	c.log.Info().Strs("files", paths).Msg("artefactos escritos")
	return nil
}
