package api_test

import (
	"encoding/json"
	"testing"

	"orderflow/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad(t *testing.T) {
	doc, err := api.Load(t.Context())
	require.NoError(t, err)

	for _, path := range []string{"/orders", "/orders/metrics", "/orders/populate", "/orders/{order_id}"} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
}

func TestRegisterSwagger(t *testing.T) {
	doc, err := api.Load(t.Context())
	require.NoError(t, err)

	require.NoError(t, api.RegisterSwagger(doc))
	require.NoError(t, api.RegisterSwagger(doc), "second registration is ignored")

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var published map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &published))
	assert.Equal(t, "3.0.3", published["openapi"])
	assert.Contains(t, published["paths"], "/orders/populate")
}
