package sheets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-reportes/internal/domain"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/export"
	"github.com/jhoicas/Inventario-reportes/internal/infrastructure/sheets"
	"github.com/jhoicas/Inventario-reportes/pkg/config"
)

type fakeValues struct {
	calls    []string
	values   [][]any
	clearErr error
}

func (f *fakeValues) Clear(_ context.Context, id, rng string) error {
	f.calls = append(f.calls, "clear "+id+" "+rng)
	return f.clearErr
}

func (f *fakeValues) Update(_ context.Context, id, rng string, values [][]any) error {
	f.calls = append(f.calls, "update "+id+" "+rng)
	f.values = values
	return nil
}

func TestPublish_LimpiaYEscribeEncabezadoYFilas(t *testing.T) {
	api := &fakeValues{}
	p := sheets.NewPublisherWithAPI(api, "sheet-1")

	tbl := export.Table{Name: "ProdutosComEstoque", Header: []string{"id", "qtd"}, Rows: [][]any{{int64(1), int64(5)}}}
	require.NoError(t, p.Publish(context.Background(), tbl, ""))

	assert.Equal(t, []string{
		"clear sheet-1 'ProdutosComEstoque'",
		"update sheet-1 'ProdutosComEstoque'!A1",
	}, api.calls)
	assert.Equal(t, [][]any{{"id", "qtd"}, {"1", "5"}}, api.values)
}

func TestPublish_ErrorAlLimpiarNoEscribe(t *testing.T) {
	api := &fakeValues{clearErr: errors.New("403")}
	p := sheets.NewPublisherWithAPI(api, "sheet-1")

	err := p.Publish(context.Background(), export.Table{Name: "X"}, "Hoja")
	require.Error(t, err)
	assert.Len(t, api.calls, 1)
}

func TestNewPublisher_SinConfiguracion(t *testing.T) {
	_, err := sheets.NewPublisher(context.Background(), config.SheetsConfig{})
	assert.ErrorIs(t, err, domain.ErrPublishDisabled)
}
