package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/metrics"
)

func TestObserve_CuentaAdvertenciasPorTipo(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe("period", time.Now(), 12, []entity.IntegrityWarning{
		{Kind: entity.WarningNegativeQuantity},
		{Kind: entity.WarningNegativeQuantity},
		{Kind: entity.WarningUnknownGrade},
	}, nil)
	r.Observe("dump", time.Now(), 0, nil, errors.New("boom"))

	expected := `
# HELP inventario_reportes_integrity_warnings_total Advertencias de integridad de datos por tipo.
# TYPE inventario_reportes_integrity_warnings_total counter
inventario_reportes_integrity_warnings_total{kind="negative_quantity",operation="period"} 2
inventario_reportes_integrity_warnings_total{kind="unknown_grade",operation="period"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"inventario_reportes_integrity_warnings_total"))

	expected = `
# HELP inventario_reportes_failures_total Operaciones abortadas con error.
# TYPE inventario_reportes_failures_total counter
inventario_reportes_failures_total{operation="dump"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected),
		"inventario_reportes_failures_total"))
}

func TestPush_EnviaAlPushgateway(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := metrics.NewRecorder()
	r.Observe("available", time.Now(), 3, nil, nil)
	require.NoError(t, r.Push(context.Background(), srv.URL, "inventario_reportes", "run-1"))
	assert.Equal(t, "/metrics/job/inventario_reportes/instance/run-1", gotPath)

	assert.NoError(t, r.Push(context.Background(), "", "job", ""))
}
