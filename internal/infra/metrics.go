package infra

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors for the HTTP surface and the fulfillment pipeline.
// Registered on the default registry and exposed at /metrics.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legofactory",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "legofactory",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "legofactory",
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	fulfillmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "legofactory",
			Name:      "fulfillments_total",
			Help:      "Fulfillment runs by resolved scenario and outcome",
		},
		[]string{"scenario", "outcome"},
	)

	warehouseOrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "legofactory",
			Name:      "warehouse_orders_created_total",
			Help:      "Total number of warehouse orders generated",
		},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncHTTPInFlight / DecHTTPInFlight track concurrent request count.
func IncHTTPInFlight() { httpRequestsInFlight.Inc() }
func DecHTTPInFlight() { httpRequestsInFlight.Dec() }

// RecordFulfillment counts a fulfillment run under its resolved scenario.
// Outcome is "success" or "error".
func RecordFulfillment(scenario string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	fulfillmentsTotal.WithLabelValues(scenario, outcome).Inc()
}

// RecordWarehouseOrderCreated counts a generated warehouse order.
func RecordWarehouseOrderCreated() {
	warehouseOrdersCreated.Inc()
}

// MetricsHandler exposes the default registry for scraping.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
