package middleware

import (
	"strconv"

	"mathduel_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics считает запросы по маршруту и статусу ответа
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
