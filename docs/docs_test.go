package docs_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Inventario-reportes/docs"
)

func TestSwagger_RegistradoYConRutasDeReportes(t *testing.T) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	for _, p := range []string{"/api/reports/period", "/api/reports/grades", "/api/reports/available", "/api/reports/dump"} {
		assert.Contains(t, parsed.Paths, p)
	}
}
