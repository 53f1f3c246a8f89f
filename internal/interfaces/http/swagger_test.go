package http_test

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	_ "github.com/jhoicas/repairshop-api/docs"
)

var fiberParam = regexp.MustCompile(`:([a-z_]+)`)

// Cada ruta /api registrada en el router figura en swagger.json con su método.
func TestSwagger_DocumentaTodasLasRutas(t *testing.T) {
	f := newAPI(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := 0
	for _, r := range f.app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api") || r.Method == fiber.MethodHead {
			continue
		}
		path := fiberParam.ReplaceAllString(strings.TrimRight(r.Path, "/"), "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "ruta sin documentar: %s %s", r.Method, path) {
			_, ok = ops[strings.ToLower(r.Method)]
			assert.True(t, ok, "método sin documentar: %s %s", r.Method, path)
		}
		documented++
	}
	assert.Equal(t, 11, documented)
}
