package schema_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/storefront/pkg/schema"
)

func newRegistryClient(t *testing.T, h http.HandlerFunc) schema.RegistryClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cl, err := sr.NewClient(sr.URLs(srv.URL))
	require.NoError(t, err)
	return schema.NewRegistryClient(cl)
}

func TestRegistryClient(t *testing.T) {
	subject := schema.ValueSubject("storefront-catalog")

	t.Run("Register", func(t *testing.T) {
		var got struct {
			Schema string `json:"schema"`
		}
		r := newRegistryClient(t, func(w http.ResponseWriter, req *http.Request) {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "/subjects/storefront-catalog-value/versions", req.URL.Path)
			assert.NoError(t, json.NewDecoder(req.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/vnd.schemaregistry.v1+json")
			_, _ = w.Write([]byte(`{"id": 7}`))
		})

		id, err := r.RegisterSchema(t.Context(), subject, schema.CatalogProductSchemaTextV1)
		require.NoError(t, err)
		assert.Equal(t, 7, id)
		assert.Equal(t, schema.CatalogProductSchemaTextV1, got.Schema)
	})

	t.Run("Incompatible", func(t *testing.T) {
		r := newRegistryClient(t, func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error_code": 409, "message": "incompatible schema"}`))
		})

		_, err := r.RegisterSchema(t.Context(), subject, schema.CatalogProductSchemaTextV1)
		require.Error(t, err)
	})
}
