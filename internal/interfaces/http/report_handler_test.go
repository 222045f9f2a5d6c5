package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-reportes/internal/application/dto"
	"github.com/jhoicas/Inventario-reportes/internal/application/reporting"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Inventario-reportes/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-reportes/pkg/jwt"
)

// memSource fuente en memoria de una sola tabla de productos y stock.
type memSource struct {
	products []entity.Product
	stock    []entity.StockEntry
	err      error
}

func (m *memSource) Acquire(context.Context) (repository.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return memSession{m}, nil
}

type memSession struct{ m *memSource }

func (s memSession) Catalog() repository.CatalogRepository { return s }
func (s memSession) Stock() repository.StockRepository     { return s }
func (s memSession) Sales() repository.SalesRepository     { return s }
func (s memSession) Release()                              {}

func (s memSession) ListProducts(context.Context) ([]entity.Product, []entity.IntegrityWarning, error) {
	return s.m.products, nil, nil
}
func (s memSession) ListGrades(context.Context, int64) ([]entity.GradeVariant, error) {
	return nil, nil
}
func (s memSession) ListAllGrades(context.Context) ([]entity.GradeVariant, error) { return nil, nil }
func (s memSession) ListEntries(context.Context, repository.StockFilter) ([]entity.StockEntry, []entity.IntegrityWarning, error) {
	return s.m.stock, nil, nil
}
func (s memSession) ListSales(context.Context, time.Time, time.Time) ([]entity.SalesRecord, []entity.IntegrityWarning, error) {
	return nil, nil, nil
}

func buildReportsApp(src repository.DataSource) *fiber.App {
	rec := metrics.NewRecorder()
	h := apphttp.NewReportHandler(reporting.NewService(src), entity.GranularityMonthly, time.UTC, nil, rec)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:   "inventario-reportes",
		Reports:   h,
		Metrics:   rec.Registry(),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return app
}

func sampleSource() *memSource {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memSource{
		products: []entity.Product{
			{ID: 1, Name: "Camisa", UnitPrice: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(20)},
			{ID: 2, Name: "Meia", UnitPrice: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(3)},
		},
		stock: []entity.StockEntry{
			{ProductID: 1, Quantity: 4, RecordedAt: at},
			{ProductID: 2, Quantity: -1, RecordedAt: at},
		},
	}
}

func TestGetAvailable_DevuelveSoloConStock(t *testing.T) {
	app := buildReportsApp(sampleSource())
	resp := doRequest(t, app, "/api/reports/available", tokenForRole(t, pkgjwt.RoleAnalista))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.AvailableProductsDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Products, 1)
	assert.Equal(t, int64(1), body.Products[0].Product.ID)
	assert.Equal(t, int64(4), body.Products[0].Available)
	assert.True(t, body.Products[0].StockValue.Equal(decimal.NewFromInt(80)))
	assert.True(t, body.Products[0].RetailValue.Equal(decimal.NewFromInt(200)))
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, "negative_quantity", body.Warnings[0].Kind)
}

func TestGetPeriod_ParametrosInvalidos400(t *testing.T) {
	app := buildReportsApp(sampleSource())
	resp := doRequest(t, app, "/api/reports/period?start=2025-02-01&end=2025-01-01", tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPeriod_IntervaloExplicito(t *testing.T) {
	app := buildReportsApp(sampleSource())
	resp := doRequest(t, app, "/api/reports/period?start=2025-01-01&end=2025-02-01", tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.PeriodReportDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2025-01-01", body.Period.Start)
	assert.Equal(t, "custom", body.Period.Granularity)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, int64(4), body.Rows[0].StockAtPeriodEnd)
	assert.NotNil(t, body.Daily)
	assert.Empty(t, body.Daily)
	assert.Equal(t, int64(4), body.Totals.StockAtPeriodEnd)
	assert.True(t, body.Totals.StockValue.Equal(decimal.NewFromInt(80)))
}

func TestGetDump_SoloAdmin(t *testing.T) {
	app := buildReportsApp(sampleSource())

	resp := doRequest(t, app, "/api/reports/dump", tokenForRole(t, pkgjwt.RoleAnalista))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "/api/reports/dump", tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.DumpDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.ID)
	assert.Len(t, body.Products, 2)
}

func TestFuenteNoDisponible503(t *testing.T) {
	app := buildReportsApp(&memSource{err: errors.New("dial tcp: connection refused")})
	resp := doRequest(t, app, "/api/reports/grades", tokenForRole(t, pkgjwt.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "DATA_SOURCE_UNAVAILABLE")
}

func TestHealthYMetricsPublicos(t *testing.T) {
	app := buildReportsApp(sampleSource())

	resp := doRequest(t, app, "/health", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// una operación para que existan series
	resp = doRequest(t, app, "/api/reports/available", tokenForRole(t, pkgjwt.RoleAdmin))
	resp.Body.Close()

	resp = doRequest(t, app, "/metrics", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "inventario_reportes_rows")
}
