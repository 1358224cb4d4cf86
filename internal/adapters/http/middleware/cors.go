package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

const (
	corsAllowMethods = "GET, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, X-Request-ID, X-Correlation-ID"
	corsMaxAge       = "600"
)

// CORS returns middleware that enforces an origin whitelist.
//
//   - An Origin on the whitelist gets the CORS response headers; its
//     preflight OPTIONS request is answered with 204.
//   - A request without an Origin passes only when AllowTools is set.
//   - Anything else is rejected with 403 "Not allowed by CORS".
//
// A nil config allows every origin.
func CORS(cfg *config.CORSConfig) gin.HandlerFunc {
	allowAll := cfg == nil
	var allowTools bool
	allowed := make(map[string]struct{})

	if cfg != nil {
		allowTools = cfg.AllowTools
		for _, origin := range cfg.AllowedOrigins {
			if origin == "*" {
				allowAll = true
			}
			allowed[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin == "" {
			if allowAll || allowTools {
				c.Next()
				return
			}
			rejectOrigin(c, origin)
			return
		}

		if _, ok := allowed[strings.ToLower(origin)]; !ok && !allowAll {
			rejectOrigin(c, origin)
			return
		}

		headers := c.Writer.Header()
		headers.Set("Access-Control-Allow-Origin", origin)
		headers.Add("Vary", "Origin")
		headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
		headers.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		headers.Set("Access-Control-Expose-Headers", strings.Join([]string{HeaderRequestID, dto.TraceIDHeader}, ", "))
		headers.Set("Access-Control-Max-Age", corsMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func rejectOrigin(c *gin.Context, origin string) {
	logging.FromContext(c.Request.Context()).Warn("origin rejected",
		"origin", origin,
		"path", c.Request.URL.Path,
	)

	dto.AbortWithError(c, http.StatusForbidden, dto.MsgCORSRejected)
}
