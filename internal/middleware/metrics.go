package middleware

import (
	"time"

	"legofactory/internal/infra"

	"github.com/gin-gonic/gin"
)

// Metrics records request count, latency and in-flight gauge per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip the scrape endpoint itself
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		infra.IncHTTPInFlight()
		defer infra.DecHTTPInFlight()

		start := time.Now()
		c.Next()

		// Use the route pattern so path labels stay low-cardinality;
		// fall back to the raw path when no route matched.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		infra.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
