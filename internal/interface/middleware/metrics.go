package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prasetyoadi/admin-directory/internal/monitoring"
)

// Metrics records one counter sample per request, labelled by route pattern
// rather than raw path to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		monitoring.ObserveRequest(path, c.Request.Method, strconv.Itoa(c.Writer.Status()))
	}
}
