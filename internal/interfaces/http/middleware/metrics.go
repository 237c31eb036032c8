package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder records one finished request
type HTTPRecorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// unmatchedRoute labels requests that matched no route, so arbitrary
// paths do not create new label values
const unmatchedRoute = "unmatched"

// Metrics records method, route pattern, status and latency of every
// request
func Metrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		recorder.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
