package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at limit bytes.
//
// Why here and not in each handler? gin's binders and GetRawData read the
// whole body before anything looks at it, so a huge gridCells array would be
// fully decoded before layout.Decode gets to reject its shape. Wrapping the
// body once makes every read stop at the limit. Requests that announce a
// larger Content-Length are turned away before reading at all.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
