package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidding_service_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bidding_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	marketOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidding_service_operations_total",
			Help: "Total number of bid/auction/order operations",
		},
		[]string{"operation", "status"},
	)

	auctionsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bidding_service_auctions_closed_total",
			Help: "Auctions finalized by sweep or explicit close",
		},
	)
)

// PrometheusMiddleware registra métricas por request
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

// RecordOperation registra una operación de dominio (bid/auction/order)
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	marketOperations.WithLabelValues(operation, status).Inc()
}

// RecordAuctionsClosed suma subastas cerradas por el barrido
func RecordAuctionsClosed(n int) {
	auctionsClosed.Add(float64(n))
}
