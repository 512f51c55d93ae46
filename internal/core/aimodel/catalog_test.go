package aimodel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"integrated-cart/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{
			BaseURL: baseURL,
			Timeout: 2 * time.Second,
		},
	}
}

func TestFetchCatalog(t *testing.T) {
	t.Run("returns backend catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/ai/models", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"name":"gemini-2.0-flash","supportedGenerationMethods":["generateContent"],"inputTokenLimit":1048576}]`))
		}))
		defer server.Close()

		client := NewCatalogClient(catalogTestConfig(server.URL))
		catalog := client.FetchCatalog(context.Background())

		require.Len(t, catalog, 1)
		assert.Equal(t, "gemini-2.0-flash", catalog[0].Name)
		assert.Equal(t, 1048576, catalog[0].InputTokenLimit)
	})

	t.Run("falls back when backend is unreachable", func(t *testing.T) {
		client := NewCatalogClient(catalogTestConfig("http://127.0.0.1:1"))
		catalog := client.FetchCatalog(context.Background())

		assert.Equal(t, FallbackCatalog(), catalog)
	})

	t.Run("falls back on non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewCatalogClient(catalogTestConfig(server.URL))
		assert.Equal(t, FallbackCatalog(), client.FetchCatalog(context.Background()))
	})

	t.Run("falls back on empty catalog", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := NewCatalogClient(catalogTestConfig(server.URL))
		assert.Equal(t, FallbackCatalog(), client.FetchCatalog(context.Background()))
	})
}
