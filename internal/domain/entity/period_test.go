package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseGranularity(t *testing.T) {
	cases := map[string]entity.Granularity{
		"daily":    entity.GranularityDaily,
		" Weekly ": entity.GranularityWeekly,
		"MONTHLY":  entity.GranularityMonthly,
		"custom":   entity.GranularityCustom,
	}
	for in, want := range cases {
		got, err := entity.ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := entity.ParseGranularity("yearly")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewPeriod_InicioPosteriorEsError(t *testing.T) {
	_, err := entity.NewPeriod(date(2025, 3, 2), date(2025, 3, 1), entity.GranularityCustom)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	p, err := entity.NewPeriod(date(2025, 3, 1), date(2025, 3, 1), entity.GranularityCustom)
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())
}

func TestPeriodContaining_Calendario(t *testing.T) {
	at := time.Date(2025, 3, 13, 15, 4, 0, 0, time.UTC) // jueves

	d, err := entity.PeriodContaining(at, entity.GranularityDaily)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 13), d.Start)
	assert.Equal(t, date(2025, 3, 14), d.End)

	w, err := entity.PeriodContaining(at, entity.GranularityWeekly)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, w.Start.Weekday())
	assert.Equal(t, date(2025, 3, 10), w.Start)
	assert.Equal(t, date(2025, 3, 17), w.End)

	m, err := entity.PeriodContaining(at, entity.GranularityMonthly)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 1), m.Start)
	assert.Equal(t, date(2025, 4, 1), m.End)

	_, err = entity.PeriodContaining(at, entity.GranularityCustom)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestPeriodContaining_DomingoPerteneceALaSemanaAnterior(t *testing.T) {
	w, err := entity.PeriodContaining(date(2025, 3, 16), entity.GranularityWeekly)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 10), w.Start)
}

func TestLastCompletePeriod(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 30, 0, 0, time.UTC)

	m, err := entity.LastCompletePeriod(now, entity.GranularityMonthly)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 12, 1), m.Start)
	assert.Equal(t, date(2025, 1, 1), m.End)

	d, err := entity.LastCompletePeriod(now, entity.GranularityDaily)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 12, 31), d.Start)
}

func TestPeriod_ContainsEsSemiabierto(t *testing.T) {
	p, err := entity.NewPeriod(date(2025, 3, 1), date(2025, 4, 1), entity.GranularityMonthly)
	require.NoError(t, err)

	assert.True(t, p.Contains(p.Start))
	assert.True(t, p.Contains(p.End.Add(-time.Nanosecond)))
	assert.False(t, p.Contains(p.End))
	assert.False(t, p.Contains(p.Start.Add(-time.Nanosecond)))
	assert.Equal(t, "20250301_20250401", p.Label())
}

func TestDumpEqual_IgnoraIDYFechaYComparaDecimalesPorValor(t *testing.T) {
	prod := entity.Product{ID: 1, Name: "A", UnitPrice: decimal.RequireFromString("10.0")}
	other := prod
	other.UnitPrice = decimal.RequireFromString("10.00")

	a := &entity.Dump{ID: "a", GeneratedAt: date(2025, 1, 1), Products: []entity.DumpProduct{{Product: prod}}}
	b := &entity.Dump{ID: "b", GeneratedAt: date(2025, 2, 1), Products: []entity.DumpProduct{{Product: other}}}
	assert.True(t, a.Equal(b))

	b.Products[0].Available = 1
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestCountByKind(t *testing.T) {
	ws := []entity.IntegrityWarning{
		{Kind: entity.WarningNegativeQuantity},
		{Kind: entity.WarningNegativeQuantity},
		{Kind: entity.WarningUnknownGrade, GradeCode: "XL"},
	}
	counts := entity.CountByKind(ws)
	assert.Equal(t, 2, counts[entity.WarningNegativeQuantity])
	assert.Equal(t, 1, counts[entity.WarningUnknownGrade])
	assert.Contains(t, ws[2].String(), "grade=XL")
}
