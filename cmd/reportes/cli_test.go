package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/domain/repository"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

var errBoom = errors.New("conexión rechazada")

// memSource fuente en memoria; failSales simula una caída a mitad de corrida.
type memSource struct {
	products  []entity.Product
	stock     []entity.StockEntry
	sales     []entity.SalesRecord
	failSales bool
}

func (m *memSource) Acquire(context.Context) (repository.Session, error) { return memSession{m}, nil }

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
func (s memSession) ListAllGrades(context.Context) ([]entity.GradeVariant, error) {
	return []entity.GradeVariant{{ProductID: 1, Code: "M", Dimension: "TAM", Label: "M"}}, nil
}
func (s memSession) ListEntries(context.Context, repository.StockFilter) ([]entity.StockEntry, []entity.IntegrityWarning, error) {
	return s.m.stock, nil, nil
}
func (s memSession) ListSales(context.Context, time.Time, time.Time) ([]entity.SalesRecord, []entity.IntegrityWarning, error) {
	if s.m.failSales {
		return nil, nil, domain.NewDataAccessError("sales.List", errBoom)
	}
	return s.m.sales, nil, nil
}

func sampleSource() *memSource {
	at := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	return &memSource{
		products: []entity.Product{
			{ID: 1, Reference: "CAM-01", Name: "Camisa", UnitPrice: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(20)},
			{ID: 2, Reference: "MEI-01", Name: "Meia", UnitPrice: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(3)},
		},
		stock: []entity.StockEntry{
			{ProductID: 1, GradeCode: "M", Warehouse: "LOJA1", Quantity: 4, RecordedAt: at},
			{ProductID: 2, Warehouse: "LOJA1", Quantity: 2, RecordedAt: at},
		},
		sales: []entity.SalesRecord{
			{ProductID: 1, GradeCode: "M", Quantity: 1, SoldAt: at.Add(time.Hour)},
		},
	}
}

func setEnv(t *testing.T, out string) {
	t.Helper()
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", config.DriverPostgres)
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_USER", "reportes")
	t.Setenv("DB_NAME", "loja")
	t.Setenv("EXPORT_DIR", out)
	t.Setenv("EXPORT_FORMAT", "csv,json")
}

// execute corre el CLI con la fuente dada y devuelve el código de salida y cuántas veces se abrió.
func execute(t *testing.T, src repository.DataSource, openErr error, args ...string) (int, int, string) {
	t.Helper()
	opened := 0
	c := newCLI(func(context.Context, config.DBConfig) (repository.DataSource, func(), error) {
		opened++
		if openErr != nil {
			return nil, nil, openErr
		}
		return src, func() {}, nil
	})
	c.now = func() time.Time { return time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC) }

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), c, args, &stdout, &stderr)
	return code, opened, stderr.String()
}

func artifacts(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	require.NoError(t, err)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{&domain.ConfigurationError{Fields: []string{"DB_HOST"}}, exitConfiguration},
		{domain.NewDataAccessError("products.List", errBoom), exitDataAccess},
		{fmt.Errorf("period: %w", domain.NewDataAccessError("sales.List", errBoom)), exitDataAccess},
		{&domain.IntegrityError{Op: "period", Count: 3}, exitIntegrity},
		{domain.ErrInvalidInput, exitFailure},
		{errors.New("inesperado"), exitFailure},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, exitCode(tc.err), "%v", tc.err)
	}
}

func TestRun_ConfiguracionInvalidaNoAbreConexion(t *testing.T) {
	setEnv(t, t.TempDir())
	t.Setenv("DB_DRIVER", "oracle")

	code, opened, stderr := execute(t, sampleSource(), nil, "period")
	assert.Equal(t, exitConfiguration, code)
	assert.Equal(t, 0, opened)
	assert.Contains(t, stderr, "DB_DRIVER")
}

func TestRun_FuenteNoDisponibleSale3(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)

	code, opened, _ := execute(t, nil, domain.NewDataAccessError("database.Open", errBoom), "grades")
	assert.Equal(t, exitDataAccess, code)
	assert.Equal(t, 1, opened)
	assert.Empty(t, artifacts(t, out))
}

func TestRun_PeriodEscribeArtefactosConEtiquetaDelPeriodo(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)

	code, _, _ := execute(t, sampleSource(), nil, "period", "--start", "2025-03-01", "--end", "2025-04-01")
	require.Equal(t, exitOK, code)

	assert.ElementsMatch(t, []string{
		"RelatorioPeriodo_20250301_20250401.csv",
		"RelatorioPeriodo_20250301_20250401.json",
		"SaidaGrade_20250301_20250401.csv",
		"SaidaGrade_20250301_20250401.json",
		"VendasDiarias_20250301_20250401.csv",
		"VendasDiarias_20250301_20250401.json",
		"ResumoDiaSemana_20250301_20250401.csv",
		"ResumoDiaSemana_20250301_20250401.json",
	}, artifacts(t, out))

	b, err := os.ReadFile(filepath.Join(out, "RelatorioPeriodo_20250301_20250401.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Camisa")
}

func TestRun_PeriodPorDefectoEsElUltimoMesCompleto(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	t.Setenv("EXPORT_FORMAT", "csv")

	code, _, _ := execute(t, sampleSource(), nil, "period")
	require.Equal(t, exitOK, code)
	assert.Contains(t, artifacts(t, out), "RelatorioPeriodo_20250301_20250401.csv")
}

func TestRun_FlagsGlobalesSobrescribenEntorno(t *testing.T) {
	envDir := t.TempDir()
	flagDir := t.TempDir()
	setEnv(t, envDir)

	code, _, _ := execute(t, sampleSource(), nil, "available", "--out", flagDir, "--format", "xlsx")
	require.Equal(t, exitOK, code)
	assert.Empty(t, artifacts(t, envDir))
	assert.Equal(t, []string{"ProdutosComEstoque_20250402.xlsx"}, artifacts(t, flagDir))
}

func TestRun_AdvertenciasSinModoEstrictoEscribeYSale0(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	src := sampleSource()
	src.stock = append(src.stock, entity.StockEntry{ProductID: 2, Warehouse: "LOJA1", Quantity: -5, RecordedAt: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)})

	code, _, _ := execute(t, src, nil, "grades")
	assert.Equal(t, exitOK, code)
	assert.NotEmpty(t, artifacts(t, out))
}

func TestRun_ModoEstrictoConAdvertenciasSale4SinArtefactos(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	src := sampleSource()
	src.stock = append(src.stock, entity.StockEntry{ProductID: 2, Warehouse: "LOJA1", Quantity: -5, RecordedAt: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)})

	code, _, _ := execute(t, src, nil, "available", "--strict")
	assert.Equal(t, exitIntegrity, code)
	assert.Empty(t, artifacts(t, out))
}

func TestRun_AllEscribeLasCuatroOperaciones(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	t.Setenv("EXPORT_FORMAT", "csv")

	code, opened, _ := execute(t, sampleSource(), nil, "all", "--date", "2025-03-15")
	require.Equal(t, exitOK, code)
	assert.Equal(t, 1, opened)

	names := artifacts(t, out)
	for _, prefix := range []string{"RelatorioPeriodo_20250301_20250401", "SaidaGrade_", "EstoqueGrade_20250402", "ProdutosComEstoque_20250402", "DumpCompleto_"} {
		found := false
		for _, n := range names {
			if len(n) >= len(prefix) && n[:len(prefix)] == prefix {
				found = true
			}
		}
		assert.True(t, found, "falta %s en %v", prefix, names)
	}
}

func TestRun_AllConFalloNoEscribeNada(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	src := sampleSource()
	src.failSales = true

	code, _, _ := execute(t, src, nil, "all")
	assert.Equal(t, exitDataAccess, code)
	assert.Empty(t, artifacts(t, out))
}

func TestRun_FalloAlEscribirUnaTablaNoDejaLasAnteriores(t *testing.T) {
	out := t.TempDir()
	setEnv(t, out)
	blocker := "VendasDiarias_20250301_20250401.json"
	require.NoError(t, os.MkdirAll(filepath.Join(out, blocker, "x"), 0o755))

	code, _, _ := execute(t, sampleSource(), nil, "period", "--start", "2025-03-01", "--end", "2025-04-01")
	assert.Equal(t, exitFailure, code)
	assert.Equal(t, []string{blocker}, artifacts(t, out))
}

func TestRun_StartSinEndEsError(t *testing.T) {
	setEnv(t, t.TempDir())
	code, _, _ := execute(t, sampleSource(), nil, "period", "--start", "2025-03-01")
	assert.Equal(t, exitFailure, code)
}

func TestRun_PublishSinCredencialesEsConfiguracion(t *testing.T) {
	setEnv(t, t.TempDir())
	code, opened, _ := execute(t, sampleSource(), nil, "dump", "--publish")
	assert.Equal(t, exitConfiguration, code)
	assert.Equal(t, 0, opened)
}

func TestRun_MigrateSoloPostgres(t *testing.T) {
	setEnv(t, t.TempDir())
	t.Setenv("DB_DRIVER", config.DriverMySQL)
	code, _, _ := execute(t, nil, nil, "migrate", "status")
	assert.Equal(t, exitConfiguration, code)
}

func TestRun_ServeSinSecretoJWTEsConfiguracion(t *testing.T) {
	setEnv(t, t.TempDir())
	code, opened, _ := execute(t, sampleSource(), nil, "serve")
	assert.Equal(t, exitConfiguration, code)
	assert.Equal(t, 0, opened)
}
