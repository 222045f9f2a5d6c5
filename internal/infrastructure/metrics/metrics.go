// Package metrics métricas de las corridas del lote (duración, filas, advertencias).
// En modo CLI se empujan a un Pushgateway al terminar; en modo serve se exponen en /metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// Recorder registra el resultado de cada operación.
type Recorder struct {
	registry    *prometheus.Registry
	duration    *prometheus.HistogramVec
	rows        *prometheus.GaugeVec
	warnings    *prometheus.CounterVec
	failures    *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
}

// NewRecorder crea las métricas en un registry propio.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inventario",
			Subsystem: "reportes",
			Name:      "operation_duration_seconds",
			Help:      "Duración de cada operación de reporte.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"operation"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "inventario",
			Subsystem: "reportes",
			Name:      "rows",
			Help:      "Filas emitidas por la última ejecución de la operación.",
		}, []string{"operation"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Subsystem: "reportes",
			Name:      "integrity_warnings_total",
			Help:      "Advertencias de integridad de datos por tipo.",
		}, []string{"operation", "kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventario",
			Subsystem: "reportes",
			Name:      "failures_total",
			Help:      "Operaciones abortadas con error.",
		}, []string{"operation"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "inventario",
			Subsystem: "reportes",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time de la última ejecución exitosa.",
		}, []string{"operation"}),
	}
	r.registry.MustRegister(r.duration, r.rows, r.warnings, r.failures, r.lastSuccess)
	return r
}

// Registry para exponer en /metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe registra una ejecución. Con err != nil solo cuenta la falla y la duración.
func (r *Recorder) Observe(op string, started time.Time, rows int, ws []entity.IntegrityWarning, err error) {
	r.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	if err != nil {
		r.failures.WithLabelValues(op).Inc()
		return
	}
	r.rows.WithLabelValues(op).Set(float64(rows))
	for kind, n := range entity.CountByKind(ws) {
		r.warnings.WithLabelValues(op, string(kind)).Add(float64(n))
	}
	r.lastSuccess.WithLabelValues(op).SetToCurrentTime()
}

// Push envía las métricas al Pushgateway. Sin URL no hace nada.
func (r *Recorder) Push(ctx context.Context, url, job, instance string) error {
	if url == "" {
		return nil
	}
	p := push.New(url, job).Gatherer(r.registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	return p.PushContext(ctx)
}
