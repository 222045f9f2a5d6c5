package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-reportes/internal/application/dto"
	"github.com/jhoicas/Inventario-reportes/internal/application/reporting"
	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/metrics"
	"github.com/jhoicas/Inventario-reportes/pkg/logger"
)

// ReportHandler expone las cuatro operaciones de reporte en modo solo lectura.
type ReportHandler struct {
	svc         *reporting.Service
	granularity entity.Granularity
	loc         *time.Location
	now         func() time.Time
	log         *logger.Logger
	rec         *metrics.Recorder
}

// NewReportHandler construye el handler. rec puede ser nil.
func NewReportHandler(svc *reporting.Service, g entity.Granularity, loc *time.Location, log *logger.Logger, rec *metrics.Recorder) *ReportHandler {
	return &ReportHandler{svc: svc, granularity: g, loc: loc, now: time.Now, log: log, rec: rec}
}

// GetPeriod GET /api/reports/period?granularity=&date=&start=&end=
// @Summary      Reporte de ventas y stock al cierre del período
// @Description  Sin fechas devuelve el último período completo de la granularidad configurada.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        granularity  query  string  false  "daily | weekly | monthly"
// @Param        date         query  string  false  "Fecha contenida en el período (YYYY-MM-DD)"
// @Param        start        query  string  false  "Inicio inclusivo (YYYY-MM-DD), requiere end"
// @Param        end          query  string  false  "Fin exclusivo (YYYY-MM-DD), requiere start"
// @Success      200  {object}  dto.PeriodReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/period [get]
func (h *ReportHandler) GetPeriod(c *fiber.Ctx) error {
	var req dto.PeriodRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	period, err := reporting.SelectPeriod(reporting.PeriodSelector{
		Granularity: req.Granularity, Date: req.Date, Start: req.Start, End: req.End,
	}, h.now(), h.loc, h.granularity)
	if err != nil {
		return h.fail(c, "period", err)
	}

	started := time.Now()
	rep, err := h.svc.Period.Build(c.UserContext(), period)
	if err != nil {
		h.observe("period", started, 0, nil, err)
		return h.fail(c, "period", err)
	}
	h.observe("period", started, len(rep.Rows), rep.Warnings, nil)
	return c.JSON(dto.FromPeriodReport(rep))
}

// GetGrades GET /api/reports/grades
// @Summary      Stock disponible por variante de grade
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GradeBreakdownDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/grades [get]
func (h *ReportHandler) GetGrades(c *fiber.Ctx) error {
	started := time.Now()
	out, err := h.svc.Grades.Analyze(c.UserContext())
	if err != nil {
		h.observe("grades", started, 0, nil, err)
		return h.fail(c, "grades", err)
	}
	h.observe("grades", started, len(out.Rows), out.Warnings, nil)
	return c.JSON(dto.FromGradeBreakdown(out))
}

// GetAvailable GET /api/reports/available
// @Summary      Productos con stock positivo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AvailableProductsDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/available [get]
func (h *ReportHandler) GetAvailable(c *fiber.Ctx) error {
	started := time.Now()
	out, err := h.svc.Available.Filter(c.UserContext())
	if err != nil {
		h.observe("available", started, 0, nil, err)
		return h.fail(c, "available", err)
	}
	h.observe("available", started, len(out.Products), out.Warnings, nil)
	return c.JSON(dto.FromAvailable(out))
}

// GetDump GET /api/reports/dump (solo admin)
// @Summary      Dump completo de catálogo y stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DumpDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/dump [get]
func (h *ReportHandler) GetDump(c *fiber.Ctx) error {
	started := time.Now()
	out, err := h.svc.Dump.Generate(c.UserContext())
	if err != nil {
		h.observe("dump", started, 0, nil, err)
		return h.fail(c, "dump", err)
	}
	h.observe("dump", started, len(out.Products), out.Warnings, nil)
	return c.JSON(dto.FromDump(out))
}

func (h *ReportHandler) observe(op string, started time.Time, rows int, ws []entity.IntegrityWarning, err error) {
	if h.rec != nil {
		h.rec.Observe(op, started, rows, ws, err)
	}
	if h.log != nil && err == nil {
		h.log.Warnings(op, ws)
	}
}

// fail traduce errores de dominio a respuestas HTTP.
func (h *ReportHandler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidPeriod):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	case errors.Is(err, domain.ErrDataAccess):
		if h.log != nil {
			h.log.Error().Err(err).Str("op", op).Msg("fuente de datos no disponible")
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "DATA_SOURCE_UNAVAILABLE", Message: "la fuente de datos no respondió",
		})
	}
	if h.log != nil {
		h.log.Error().Err(err).Str("op", op).Msg("error interno")
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
