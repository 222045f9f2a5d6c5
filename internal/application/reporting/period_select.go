package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/domain/entity"
)

// PeriodSelector argumentos de selección de período (flags del CLI o query del API).
//   - Start/End: intervalo explícito [Start, End); se requieren ambos.
//   - Date: el período de la granularidad que contiene esa fecha.
//   - Sin fechas: el último período completo antes de ahora.
type PeriodSelector struct {
	Granularity string
	Date        string
	Start       string
	End         string
}

// SelectPeriod resuelve el selector en la zona loc. Fechas en formato YYYY-MM-DD.
func SelectPeriod(sel PeriodSelector, now time.Time, loc *time.Location, def entity.Granularity) (entity.Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	if sel.Start != "" || sel.End != "" {
		if sel.Start == "" || sel.End == "" {
			return entity.Period{}, fmt.Errorf("%w: start y end van juntos", domain.ErrInvalidInput)
		}
		start, err := parseDate(sel.Start, loc)
		if err != nil {
			return entity.Period{}, err
		}
		end, err := parseDate(sel.End, loc)
		if err != nil {
			return entity.Period{}, err
		}
		return entity.NewPeriod(start, end, entity.GranularityCustom)
	}

	g := def
	if strings.TrimSpace(sel.Granularity) != "" {
		var err error
		if g, err = entity.ParseGranularity(sel.Granularity); err != nil {
			return entity.Period{}, err
		}
	}
	if g == entity.GranularityCustom {
		return entity.Period{}, fmt.Errorf("%w: granularidad custom requiere start y end", domain.ErrInvalidInput)
	}
	if sel.Date != "" {
		d, err := parseDate(sel.Date, loc)
		if err != nil {
			return entity.Period{}, err
		}
		return entity.PeriodContaining(d, g)
	}
	return entity.LastCompletePeriod(now.In(loc), g)
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}
