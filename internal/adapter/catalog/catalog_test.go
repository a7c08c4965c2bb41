package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/adapter/catalog"
)

const catalogDoc = `{
	"products": [
		{
			"id": 1,
			"name": "Desk Lamp",
			"brand": "Acme",
			"category": "Lighting",
			"price": 1000,
			"images": ["lamp.jpg"],
			"description": "Warm light",
			"sku": "AC-1",
			"reviews_star_average": 4.4,
			"reviews_count": 12,
			"inStock": true
		},
		{
			"id": 2,
			"name": "Chair",
			"brand": "Zen",
			"category": "Furniture",
			"price": 19.99,
			"image": "chair.jpg",
			"inStock": false
		}
	]
}`

func TestFileSource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/db.json", []byte(catalogDoc), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/bad.json", []byte(`{"products": [`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/other.json", []byte(`{"items": []}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/srv/empty.json", []byte(`{"products": []}`), 0o644))

	t.Run("Decode", func(t *testing.T) {
		ps, err := catalog.NewFileSource(fsys, "/srv/db.json").FetchCatalog(t.Context())
		require.NoError(t, err)
		require.Len(t, ps, 2)

		assert.EqualValues(t, 1, ps[0].ID)
		assert.Equal(t, "1000", ps[0].Price.String())
		assert.Equal(t, "lamp.jpg", ps[0].ImageURL())
		assert.True(t, ps[0].InStock)
		assert.Equal(t, 12, ps[0].ReviewsCount)

		assert.Equal(t, "19.99", ps[1].Price.String())
		assert.Equal(t, "chair.jpg", ps[1].ImageURL())
		assert.False(t, ps[1].InStock)
	})

	t.Run("EmptyProducts", func(t *testing.T) {
		ps, err := catalog.NewFileSource(fsys, "/srv/empty.json").FetchCatalog(t.Context())
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := catalog.NewFileSource(fsys, "/srv/none.json").FetchCatalog(t.Context())
		require.Error(t, err)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := catalog.NewFileSource(fsys, "/srv/bad.json").FetchCatalog(t.Context())
		require.Error(t, err)
	})

	t.Run("NoProductsField", func(t *testing.T) {
		_, err := catalog.NewFileSource(fsys, "/srv/other.json").FetchCatalog(t.Context())
		require.ErrorIs(t, err, catalog.ErrNoProducts)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := catalog.NewFileSource(fsys, "/srv/db.json").FetchCatalog(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHTTPSource(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				calls++
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/db.json", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(catalogDoc))
			},
		))
		defer srv.Close()

		ps, err := catalog.NewHTTPSource(srv.URL+"/db.json", time.Second).
			FetchCatalog(t.Context())
		require.NoError(t, err)
		assert.Len(t, ps, 2)
		assert.Equal(t, 1, calls)
	})

	t.Run("BadStatus", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(http.StatusInternalServerError)
			},
		))
		defer srv.Close()

		_, err := catalog.NewHTTPSource(srv.URL, time.Second).FetchCatalog(t.Context())
		require.ErrorIs(t, err, catalog.ErrBadStatus)
		assert.Equal(t, 1, calls, "a failed fetch is not retried")
	})

	t.Run("Malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		))
		defer srv.Close()

		_, err := catalog.NewHTTPSource(srv.URL, time.Second).FetchCatalog(t.Context())
		require.Error(t, err)
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := catalog.NewHTTPSource(url, time.Second).FetchCatalog(t.Context())
		require.Error(t, err)
	})
}
