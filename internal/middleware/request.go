package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amankumarsingh77/hoopcast/pkg/utils"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hoopcast_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hoopcast_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RequestLoggerMiddleware logs one line per request and records its latency.
// Event streams are logged when they close.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		status := c.Response().Status
		elapsed := time.Since(start)
		route := c.Path()

		httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(req.Method, route).Observe(elapsed.Seconds())

		mw.logger.Infof("RequestID: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s, IP: %s",
			utils.GetRequestID(c), req.Method, req.URL.String(), status, c.Response().Size, elapsed, utils.GetIPAddress(c),
		)
		return nil
	}
}
