package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seoscope/seoscope/logging"
)

// Stats tracks visitors and analysis request metrics, persisting the
// statistics every hundredth request.
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == http.MethodPost {
			loadTime := float64(time.Since(start).Milliseconds())
			stats.TrackAnalysis(c.Request.URL.String(), loadTime, c.Writer.Status() >= 400)
		}

		if total := stats.RequestTotal(); total > 0 && total%100 == 0 {
			go stats.Save()
		}
	}
}

// CORS applies the permissive cross-origin policy the public API needs.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
