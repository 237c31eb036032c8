package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method, route string
	status        int
}

type fakeHTTPRecorder struct {
	mu   sync.Mutex
	seen []observation
}

func (f *fakeHTTPRecorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observation{method, route, status})
}

func TestMetrics(t *testing.T) {
	rec := &fakeHTTPRecorder{}
	router := gin.New()
	router.Use(Metrics(rec))
	router.GET("/api/orders/:orderId", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/orders/123", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope", nil))

	require.Len(t, rec.seen, 2)
	assert.Equal(t, observation{"GET", "/api/orders/:orderId", http.StatusNotFound}, rec.seen[0])
	assert.Equal(t, unmatchedRoute, rec.seen[1].route)
}
