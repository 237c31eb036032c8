// Package metrics exposes Prometheus counters and histograms for the HTTP
// surface, the document store and the order lifecycle.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests
type Metrics struct {
	registry  *prometheus.Registry
	namespace string

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	storeOps      *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec

	ordersPlaced   *prometheus.CounterVec
	ordersCanceled prometheus.Counter
	statusChanges  *prometheus.CounterVec
	ordersPurged   prometheus.Counter
	checkoutReplay prometheus.Counter

	cartSaves *prometheus.CounterVec
}

// New registers every collector under namespace
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry:  registry,
		namespace: namespace,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Document loads and saves by outcome.",
		}, []string{"driver", "document", "operation", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Document load and save latency in seconds.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"driver", "document", "operation"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Orders appended to the ledger.",
		}, []string{"kind", "delivery"}),
		ordersCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "canceled_total",
			Help:      "Orders canceled by customers.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_changes_total",
			Help:      "Administrative status changes by target status.",
		}, []string{"status"}),
		ordersPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "purged_total",
			Help:      "Orders removed together with their customer.",
		}),
		checkoutReplay: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "checkout_replays_total",
			Help:      "Checkouts answered from a stored idempotent result.",
		}),
		cartSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "saves_total",
			Help:      "Background cart saves by outcome.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.storeOps, m.storeDuration,
		m.ordersPlaced, m.ordersCanceled, m.statusChanges, m.ordersPurged, m.checkoutReplay,
		m.cartSaves,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one finished request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveDocument implements persistence.Observer
func (m *Metrics) ObserveDocument(driver, document, operation string, d time.Duration, err error) {
	document = documentLabel(document)
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOps.WithLabelValues(driver, document, operation, result).Inc()
	m.storeDuration.WithLabelValues(driver, document, operation).Observe(d.Seconds())
}

// every non-default cart session has its own document
func documentLabel(document string) string {
	if strings.HasPrefix(document, "cart-") {
		return "cart-session"
	}
	return document
}

// OrderPlaced counts an appended order
func (m *Metrics) OrderPlaced(kind, delivery string) {
	if delivery == "" {
		delivery = "none"
	}
	m.ordersPlaced.WithLabelValues(kind, delivery).Inc()
}

// OrderCanceled counts a customer cancellation
func (m *Metrics) OrderCanceled() {
	m.ordersCanceled.Inc()
}

// OrderStatusChanged counts an administrative status change
func (m *Metrics) OrderStatusChanged(status string) {
	m.statusChanges.WithLabelValues(status).Inc()
}

// OrdersPurged counts orders removed with a customer
func (m *Metrics) OrdersPurged(n int) {
	m.ordersPurged.Add(float64(n))
}

// CheckoutReplayed counts an idempotent replay
func (m *Metrics) CheckoutReplayed() {
	m.checkoutReplay.Inc()
}

// CartSaved counts a background cart save
func (m *Metrics) CartSaved(err error) {
	if err != nil {
		m.cartSaves.WithLabelValues("error").Inc()
		return
	}
	m.cartSaves.WithLabelValues("ok").Inc()
}

// RegisterPool exposes the size of a worker pool as gauges
func (m *Metrics) RegisterPool(name string, running, waiting func() int) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Name:        "worker_pool_running",
			Help:        "Workers currently executing a task.",
			ConstLabels: prometheus.Labels{"pool": name},
		}, func() float64 { return float64(running()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Name:        "worker_pool_waiting",
			Help:        "Tasks blocked waiting for a worker.",
			ConstLabels: prometheus.Labels{"pool": name},
		}, func() float64 { return float64(waiting()) }),
	)
}
