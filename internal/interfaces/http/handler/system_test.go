package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Names(context.Context) ([]string, error) { return nil, errors.New("disk gone") }
func (brokenStore) Driver() string                          { return "file" }

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		api := newTestAPI(t)
		// Loading the catalog writes the seeded products document
		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/api/products", nil).Code)

		w := api.do(t, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[HealthResponse](t, w)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "file", resp.Storage)
		assert.Equal(t, 1, resp.Documents)
	})

	t.Run("store failure", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", NewSystemHandler(brokenStore{}).Health)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decode[HealthResponse](t, w).Status)
	})
}
