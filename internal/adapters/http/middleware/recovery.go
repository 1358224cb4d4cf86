package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

// PanicHook receives a recovered panic value and the goroutine stack.
type PanicHook func(value any, stack []byte)

// Recovery turns a handler panic into a logged error and a generic 500 body.
// Register it before everything else.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return RecoveryWithHook(logger, nil)
}

// RecoveryWithHook is Recovery that also hands each panic to hook, e.g. for
// a crash reporter. A nil logger falls back to slog.Default.
func RecoveryWithHook(logger *slog.Logger, hook PanicHook) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}

			stack := debug.Stack()
			if hook != nil {
				hook(v, stack)
			}

			logging.FromContextOr(c.Request.Context(), logger).Error("panic recovered",
				slog.Any("error", v),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("trace_id", dto.GetTraceID(c)),
				slog.String("stack", string(stack)),
			)

			dto.AbortWithError(c, http.StatusInternalServerError, dto.MsgInternal)
		}()

		c.Next()
	}
}
