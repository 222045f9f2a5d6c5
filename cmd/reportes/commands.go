package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Inventario-reportes/internal/application/reporting"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/export"
)

// ── Comandos de lote ──────────────────────────────────────────────────────────

func periodFlags(cmd *cobra.Command, sel *reporting.PeriodSelector) {
	cmd.Flags().StringVar(&sel.Granularity, "granularity", "", "daily | weekly | monthly (por defecto REPORT_GRANULARITY)")
	cmd.Flags().StringVar(&sel.Date, "date", "", "fecha YYYY-MM-DD contenida en el período")
	cmd.Flags().StringVar(&sel.Start, "start", "", "inicio YYYY-MM-DD (inclusivo)")
	cmd.Flags().StringVar(&sel.End, "end", "", "fin YYYY-MM-DD (exclusivo)")
}

func (c *cli) periodCmd() *cobra.Command {
	var sel reporting.PeriodSelector
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Ventas y stock al cierre por producto en un período",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd.Context(), func(ctx context.Context, svc *reporting.Service) ([]*result, error) {
				r, err := c.runPeriod(ctx, svc, sel)
				return []*result{r}, err
			})
		},
	}
	periodFlags(cmd, &sel)
	return cmd
}

func (c *cli) gradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "Stock disponible por variante de grade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd.Context(), func(ctx context.Context, svc *reporting.Service) ([]*result, error) {
				r, err := c.runGrades(ctx, svc)
				return []*result{r}, err
			})
		},
	}
}

func (c *cli) availableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "Productos con stock estrictamente positivo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd.Context(), func(ctx context.Context, svc *reporting.Service) ([]*result, error) {
				r, err := c.runAvailable(ctx, svc)
				return []*result{r}, err
			})
		},
	}
}

func (c *cli) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Exportación completa de catálogo, variantes y movimientos de stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd.Context(), func(ctx context.Context, svc *reporting.Service) ([]*result, error) {
				r, err := c.runDump(ctx, svc)
				return []*result{r}, err
			})
		},
	}
}

// allCmd corre las cuatro operaciones en paralelo. Si alguna falla no se escribe ningún artefacto.
func (c *cli) allCmd() *cobra.Command {
	var sel reporting.PeriodSelector
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Genera período, grades, disponibles y dump en una sola corrida",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.batch(cmd.Context(), func(ctx context.Context, svc *reporting.Service) ([]*result, error) {
				results := make([]*result, 4)
				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() (err error) { results[0], err = c.runPeriod(gctx, svc, sel); return })
				g.Go(func() (err error) { results[1], err = c.runGrades(gctx, svc); return })
				g.Go(func() (err error) { results[2], err = c.runAvailable(gctx, svc); return })
				g.Go(func() (err error) { results[3], err = c.runDump(gctx, svc); return })
				if err := g.Wait(); err != nil {
					return nil, err
				}
				return results, nil
			})
		},
	}
	periodFlags(cmd, &sel)
	return cmd
}

type operation func(ctx context.Context, svc *reporting.Service) ([]*result, error)

// batch abre la fuente, corre la operación y emite los artefactos.
func (c *cli) batch(ctx context.Context, op operation) error {
	svc, closeFn, err := c.service(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := op(ctx, svc)
	if err != nil {
		return err
	}
	return c.emit(ctx, results...)
}

// ── Operaciones ───────────────────────────────────────────────────────────────

func (c *cli) runPeriod(ctx context.Context, svc *reporting.Service, sel reporting.PeriodSelector) (*result, error) {
	period, err := reporting.SelectPeriod(sel, c.now(), c.loc, c.defaultGranularity())
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("op", "period").Stringer("period", period).Msg("generando reporte")

	started := time.Now()
	rep, err := svc.Period.Build(ctx, period)
	if err != nil {
		c.rec.Observe("period", started, 0, nil, err)
		return nil, err
	}
	c.rec.Observe("period", started, len(rep.Rows), rep.Warnings, nil)
	return &result{
		op:     "period",
		suffix: period.Label(),
		tables: []export.Table{
			export.PeriodReportTable(rep),
			export.GradeOutflowsTable(rep),
			export.DailySalesTable(rep),
			export.WeekdaySummaryTable(rep),
		},
		warnings: rep.Warnings,
	}, nil
}

func (c *cli) runGrades(ctx context.Context, svc *reporting.Service) (*result, error) {
	started := time.Now()
	out, err := svc.Grades.Analyze(ctx)
	if err != nil {
		c.rec.Observe("grades", started, 0, nil, err)
		return nil, err
	}
	c.rec.Observe("grades", started, len(out.Rows), out.Warnings, nil)
	return &result{
		op:       "grades",
		suffix:   c.dayLabel(),
		tables:   []export.Table{export.GradeStockTable(out)},
		warnings: out.Warnings,
	}, nil
}

func (c *cli) runAvailable(ctx context.Context, svc *reporting.Service) (*result, error) {
	started := time.Now()
	out, err := svc.Available.Filter(ctx)
	if err != nil {
		c.rec.Observe("available", started, 0, nil, err)
		return nil, err
	}
	c.rec.Observe("available", started, len(out.Products), out.Warnings, nil)
	return &result{
		op:       "available",
		suffix:   c.dayLabel(),
		tables:   []export.Table{export.AvailableTable(out)},
		warnings: out.Warnings,
	}, nil
}

func (c *cli) runDump(ctx context.Context, svc *reporting.Service) (*result, error) {
	started := time.Now()
	out, err := svc.Dump.Generate(ctx)
	if err != nil {
		c.rec.Observe("dump", started, 0, nil, err)
		return nil, err
	}
	c.rec.Observe("dump", started, len(out.Products), out.Warnings, nil)
	c.log.Info().Str("op", "dump").Str("dump_id", out.ID).Msg("dump generado")
	return &result{
		op:       "dump",
		suffix:   out.GeneratedAt.In(c.loc).Format("20060102_150405"),
		tables:   []export.Table{export.DumpTable(out)},
		warnings: out.Warnings,
	}, nil
}

// dayLabel sufijo de los reportes de foto actual (grades, available).
func (c *cli) dayLabel() string {
	return c.now().In(c.loc).Format("20060102")
}
