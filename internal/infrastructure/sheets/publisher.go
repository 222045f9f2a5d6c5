// Package sheets publica tablas de reportes en una hoja de cálculo de Google.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/export"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

// ValuesAPI subconjunto de la API de valores usado por el publisher.
type ValuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// Publisher reemplaza el contenido de una pestaña por la tabla: limpia el rango y escribe
// encabezado y filas en modo RAW.
type Publisher struct {
	api           ValuesAPI
	spreadsheetID string
}

// NewPublisher construye el publisher con credenciales de cuenta de servicio.
func NewPublisher(ctx context.Context, cfg config.SheetsConfig) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, domain.ErrPublishDisabled
	}
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: crear servicio: %w", err)
	}
	return NewPublisherWithAPI(googleValues{svc: svc.Spreadsheets.Values}, cfg.SpreadsheetID), nil
}

// NewPublisherWithAPI permite inyectar otra implementación de ValuesAPI.
func NewPublisherWithAPI(api ValuesAPI, spreadsheetID string) *Publisher {
	return &Publisher{api: api, spreadsheetID: spreadsheetID}
}

// Publish escribe la tabla en la pestaña sheet (por defecto, el nombre de la tabla).
func (p *Publisher) Publish(ctx context.Context, t export.Table, sheet string) error {
	if sheet == "" {
		sheet = t.Name
	}
	rng := fmt.Sprintf("'%s'!A1", sheet)

	values := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, r := range t.StringRows() {
		line := make([]any, len(r))
		for i, v := range r {
			line[i] = v
		}
		values = append(values, line)
	}

	if err := p.api.Clear(ctx, p.spreadsheetID, fmt.Sprintf("'%s'", sheet)); err != nil {
		return fmt.Errorf("sheets.Clear %s: %w", sheet, err)
	}
	if err := p.api.Update(ctx, p.spreadsheetID, rng, values); err != nil {
		return fmt.Errorf("sheets.Update %s: %w", sheet, err)
	}
	return nil
}

// googleValues adapta SpreadsheetsValuesService a ValuesAPI.
type googleValues struct {
	svc *gsheets.SpreadsheetsValuesService
}

func (g googleValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := g.svc.Clear(spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g googleValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	_, err := g.svc.Update(spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
