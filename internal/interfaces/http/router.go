package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Inventario-reportes/internal/application/dto"
	"github.com/jhoicas/Inventario-reportes/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName   string
	Reports   *ReportHandler
	Metrics   prometheus.Gatherer // nil: sin /metrics
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Públicas
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", App: deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	reports := api.Group("/reports")
	reports.Get("/period", RequireRole(jwt.RoleAdmin, jwt.RoleAnalista), deps.Reports.GetPeriod)
	reports.Get("/grades", RequireRole(jwt.RoleAdmin, jwt.RoleAnalista), deps.Reports.GetGrades)
	reports.Get("/available", RequireRole(jwt.RoleAdmin, jwt.RoleAnalista), deps.Reports.GetAvailable)
	reports.Get("/dump", RequireRole(jwt.RoleAdmin), deps.Reports.GetDump)
}
