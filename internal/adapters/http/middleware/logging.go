package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

// internalPrefix marks probe and admin routes that are never logged.
const internalPrefix = "/-/"

// skipper reports whether path is one of paths.
func skipper(paths []string) func(path string) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[path]
		return ok
	}
}

// Logging logs every request twice: once on arrival and once with its
// status and latency. Routes under /-/ and the exact skipPaths are silent.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := skipper(skipPaths)

	return func(c *gin.Context) {
		req := c.Request
		if skip(req.URL.Path) || strings.HasPrefix(req.URL.Path, internalPrefix) {
			c.Next()
			return
		}

		target := req.URL.Path
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		route := []any{slog.String("method", req.Method), slog.String("path", target)}

		// Carries request_id and correlation_id once the ID middleware ran.
		log := logging.FromContextOr(req.Context(), logger)
		log.Info("request started", append(route,
			slog.String("client_ip", c.ClientIP()),
			slog.String("origin", c.GetHeader("Origin")),
		)...)

		began := time.Now()
		c.Next()

		status := c.Writer.Status()
		log.Log(req.Context(), levelFor(status), "request completed", append(route,
			slog.Int("status", status),
			slog.Duration("latency", time.Since(began)),
			slog.Int("bytes", c.Writer.Size()),
		)...)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
