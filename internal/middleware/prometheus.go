package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hackcall-backend/pkg/metrics"
)

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
type PrometheusMiddleware struct {
	metrics *metrics.Metrics
}

// NewPrometheusMiddleware creates a new Prometheus middleware
func NewPrometheusMiddleware(m *metrics.Metrics) *PrometheusMiddleware {
	return &PrometheusMiddleware{
		metrics: m,
	}
}

// Handler returns the Gin middleware handler
func (p *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.metrics.IncrementHTTPRequestsInFlight()
		defer p.metrics.DecrementHTTPRequestsInFlight()

		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		p.metrics.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}

// MetricsHandler returns an HTTP handler for Prometheus metrics endpoint
func MetricsHandler(m *metrics.Metrics) gin.HandlerFunc {
	if m == nil || m.GetRegistry() == nil {
		return func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "metrics_not_initialized",
			})
		}
	}

	handler := promhttp.HandlerFor(m.GetRegistry(), promhttp.HandlerOpts{
		EnableOpenMetrics: false,
	})
	return gin.WrapH(handler)
}
