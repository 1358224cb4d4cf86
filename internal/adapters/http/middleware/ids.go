// Package middleware provides the gin middleware chain for the catalog API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single inbound request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a transaction across services and is
	// forwarded unchanged on every PokeAPI call the request makes.
	HeaderCorrelationID = "X-Correlation-ID"

	// maxIDLength caps a caller-supplied ID before it is replaced.
	maxIDLength = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// idField ties a header to the context slot and log attribute carrying it.
type idField struct {
	header string
	key    idKey
	log    func(ctx context.Context, id string) context.Context
}

var (
	requestIDField     = idField{header: HeaderRequestID, key: requestIDKey, log: logging.WithRequestID}
	correlationIDField = idField{header: HeaderCorrelationID, key: correlationIDKey, log: logging.WithCorrelationID}
)

// RequestID accepts a well-formed X-Request-ID or mints a UUID v4, echoes
// it on the response and stores it on the request context and logger.
func RequestID() gin.HandlerFunc {
	return requestIDField.middleware()
}

// CorrelationID is RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc {
	return correlationIDField.middleware()
}

func (f idField) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(f.header)
		if !validID(id) {
			id = uuid.NewString()
		}

		c.Header(f.header, id)

		ctx := context.WithValue(c.Request.Context(), f.key, id)
		c.Request = c.Request.WithContext(f.log(ctx, id))

		c.Next()
	}
}

// validID accepts 1..maxIDLength characters from [A-Za-z0-9._:-]. Anything
// else would end up verbatim in logs and outbound headers.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		switch b := id[i]; {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '-', b == '_', b == '.', b == ':':
		default:
			return false
		}
	}

	return true
}

// RequestIDFromContext returns the request ID, or "" when none was set.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID, or "" when none was set.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, correlationIDKey)
}

// ContextWithRequestID stores id for outbound propagation without touching the logger.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID is ContextWithRequestID for the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// GetRequestID returns the request ID assigned to c.
func GetRequestID(c *gin.Context) string {
	return RequestIDFromContext(c.Request.Context())
}

func idFromContext(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
