package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
)

// Granularity etiqueta de cadencia del reporte.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityCustom  Granularity = "custom" // intervalo explícito --start/--end
)

// ParseGranularity normaliza la etiqueta recibida por CLI o configuración.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityDaily:
		return GranularityDaily, nil
	case GranularityWeekly:
		return GranularityWeekly, nil
	case GranularityMonthly:
		return GranularityMonthly, nil
	case GranularityCustom:
		return GranularityCustom, nil
	}
	return "", fmt.Errorf("%w: granularidad %q (daily|weekly|monthly)", domain.ErrInvalidInput, s)
}

// Period intervalo semiabierto [Start, End).
type Period struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// NewPeriod valida el intervalo. Start == End es válido (período vacío).
func NewPeriod(start, end time.Time, g Granularity) (Period, error) {
	if start.After(end) {
		return Period{}, fmt.Errorf("%w: inicio %s posterior a fin %s",
			domain.ErrInvalidPeriod, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return Period{Start: start, End: end, Granularity: g}, nil
}

// PeriodContaining devuelve el período de la granularidad dada que contiene t.
// Las semanas empiezan el lunes.
func PeriodContaining(t time.Time, g Granularity) (Period, error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch g {
	case GranularityDaily:
		return Period{Start: day, End: day.AddDate(0, 0, 1), Granularity: g}, nil
	case GranularityWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 7), Granularity: g}, nil
	case GranularityMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return Period{Start: start, End: start.AddDate(0, 1, 0), Granularity: g}, nil
	}
	return Period{}, fmt.Errorf("%w: granularidad %q sin calendario", domain.ErrInvalidPeriod, g)
}

// LastCompletePeriod devuelve el último período cerrado antes de now
// (el disparador periódico corre después del cierre).
func LastCompletePeriod(now time.Time, g Granularity) (Period, error) {
	current, err := PeriodContaining(now, g)
	if err != nil {
		return Period{}, err
	}
	return PeriodContaining(current.Start.Add(-time.Nanosecond), g)
}

// Contains aplica el criterio semiabierto start <= t < end.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// IsEmpty indica Start == End.
func (p Period) IsEmpty() bool { return p.Start.Equal(p.End) }

// Label sufijo usado en nombres de archivo: YYYYMMDD_YYYYMMDD (fin exclusivo).
func (p Period) Label() string {
	return p.Start.Format("20060102") + "_" + p.End.Format("20060102")
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s) %s", p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly), p.Granularity)
}
