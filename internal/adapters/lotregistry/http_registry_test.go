package lotregistry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRegistry_LotExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lots/L1":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"L1"}`))
		case "/lots/BROKEN":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	registry := NewHTTPRegistry(server.URL+"/", server.Client())
	ctx := context.Background()

	exists, err := registry.LotExists(ctx, "L1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = registry.LotExists(ctx, "L2")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = registry.LotExists(ctx, "BROKEN")
	assert.ErrorContains(t, err, "500")
}

func TestHTTPRegistry_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPRegistry(url, nil).LotExists(context.Background(), "L1")
	assert.Error(t, err)
}
