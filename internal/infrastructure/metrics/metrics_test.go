package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HTTP(t *testing.T) {
	m := New("test")

	m.ObserveHTTP(http.MethodGet, "/api/orders/:orderId", 200, 12*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/orders/:orderId", 200, 3*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/orders/:orderId", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_ObserveDocument(t *testing.T) {
	m := New("test")

	m.ObserveDocument("file", "orders", "save", time.Millisecond, nil)
	m.ObserveDocument("file", "orders", "save", time.Millisecond, errors.New("disk full"))
	m.ObserveDocument("bolt", "cart-tab1", "save", time.Millisecond, nil)
	m.ObserveDocument("bolt", "cart-tab2", "save", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("file", "orders", "save", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOps.WithLabelValues("file", "orders", "save", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.storeOps.WithLabelValues("bolt", "cart-session", "save", "ok")))
}

func TestMetrics_Orders(t *testing.T) {
	m := New("test")

	m.OrderPlaced("detailed", "home")
	m.OrderPlaced("legacy", "")
	m.OrderCanceled()
	m.OrderStatusChanged("Shipped")
	m.OrdersPurged(3)
	m.CheckoutReplayed()
	m.CartSaved(nil)
	m.CartSaved(errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced.WithLabelValues("legacy", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCanceled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("Shipped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ordersPurged))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkoutReplay))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartSaves.WithLabelValues("error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("shop")
	m.RegisterPool("cart", func() int { return 2 }, func() int { return 0 })
	m.OrderCanceled()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "shop_orders_canceled_total 1"))
	assert.True(t, strings.Contains(body, `shop_worker_pool_running{pool="cart"} 2`))
}
