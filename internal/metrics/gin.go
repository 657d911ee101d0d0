package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Requests to these routes are not observed.
var skipRoutes = map[string]bool{
	"/metrics": true,
	"/health":  true,
}

var (
	registerOnce sync.Once

	httpLabels = []string{"method", "route", "class"}

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cvcrafter",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP latency by route and status class.",
		Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, httpLabels)

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cvcrafter",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status class.",
	}, httpLabels)

	httpResponseBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cvcrafter",
		Subsystem: "http",
		Name:      "response_bytes",
		Help:      "Response body sizes in bytes by route.",
		Buckets:   prometheus.ExponentialBuckets(256, 4, 9),
	}, []string{"route"})

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cvcrafter",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "HTTP requests being served.",
	})
)

// statusClass folds a status code into "2xx", "4xx" and so on.
func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// GinMiddleware registers the HTTP collectors once and observes every request
// on a registered route. Unmatched paths share one label to bound cardinality.
func GinMiddleware() gin.HandlerFunc {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpDuration, httpRequests, httpResponseBytes, httpInFlight)
	})

	return func(c *gin.Context) {
		route := c.FullPath()
		if skipRoutes[route] {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		class := statusClass(c.Writer.Status())
		httpDuration.WithLabelValues(c.Request.Method, route, class).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Request.Method, route, class).Inc()
		if size := c.Writer.Size(); size > 0 {
			httpResponseBytes.WithLabelValues(route).Observe(float64(size))
		}
	}
}
