package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// requestLogger logs each request with structured fields and records
// prometheus request metrics
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestCount.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Observe(duration.Seconds())

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   status,
			"duration": duration.String(),
		})

		if status >= 500 {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request handled")
		}
	}
}
