package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// SimpleTimeout puts a deadline on the request context. It never writes a
// response itself: upstream calls made with the context fail once the
// deadline passes and the handler maps that like any other upstream error.
// A non-positive timeout, or a path in skipPaths, leaves the context alone.
func SimpleTimeout(timeout time.Duration, skipPaths ...string) gin.HandlerFunc {
	skip := skipper(skipPaths)

	return func(c *gin.Context) {
		if timeout <= 0 || skip(c.Request.URL.Path) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
