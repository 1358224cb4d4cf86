// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
	"github.com/jsamuelsen/pokedex-service/internal/platform/telemetry"
)

const (
	// TraceIDHeader carries the request's trace ID on error responses.
	TraceIDHeader = telemetry.TraceIDHeader

	// MsgInternal is the message for errors that are not AppErrors.
	MsgInternal = "Internal server error"

	// MsgTimeout is the message written when a request deadline expires.
	MsgTimeout = "Request timed out"

	// MsgNotFound is the message for unknown routes.
	MsgNotFound = "Not found"

	// MsgCORSRejected is the message for disallowed cross-origin requests.
	MsgCORSRejected = "Not allowed by CORS"
)

// ErrorResponse is the error envelope for every error response:
//
//	{"error": "Failed to fetch pokemon", "statusCode": 404}
type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// NewErrorResponse creates an error response with the given message and status.
func NewErrorResponse(message string, status int) *ErrorResponse {
	return &ErrorResponse{
		Error:      message,
		StatusCode: status,
	}
}

// FromError maps err to an error response. AppErrors keep their message and
// status; anything else becomes a generic 500 so internals never leak.
func FromError(err error) *ErrorResponse {
	if appErr, ok := domain.AsAppError(err); ok {
		return NewErrorResponse(appErr.Message, appErr.StatusCode)
	}

	return NewErrorResponse(MsgInternal, http.StatusInternalServerError)
}

// HandleError writes err as an error response. Non-operational and unknown
// errors are logged at error level with the trace ID.
func HandleError(c *gin.Context, err error) {
	resp := FromError(err)
	traceID := GetTraceID(c)

	appErr, ok := domain.AsAppError(err)
	if !ok || !appErr.Operational || resp.StatusCode >= http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("request failed",
			"error", err.Error(),
			"status", resp.StatusCode,
			"trace_id", traceID,
		)
	}

	writeTraceID(c, traceID)
	c.JSON(resp.StatusCode, resp)
}

// AbortWithError aborts the handler chain with an error response.
// If the response has already started, the chain is aborted without a body.
func AbortWithError(c *gin.Context, status int, message string) {
	writeTraceID(c, GetTraceID(c))

	if c.Writer.Written() {
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, NewErrorResponse(message, status))
}

// GetTraceID returns the trace ID for the request. An explicit "trace_id"
// context value wins, then the active span, then the request ID already
// assigned to the response, then the raw X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
		return ""
	}

	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.Writer.Header().Get("X-Request-ID"); id != "" {
		return id
	}

	return c.Request.Header.Get("X-Request-ID")
}

func writeTraceID(c *gin.Context, traceID string) {
	if traceID != "" && !c.Writer.Written() {
		c.Header(TraceIDHeader, traceID)
	}
}
