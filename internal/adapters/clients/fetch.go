package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Response is a fully buffered upstream reply. Any status, including 4xx and
// 5xx, is delivered as a Response; the caller decides what counts as success.
type Response struct {
	StatusCode int
	StatusText string
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Err returns a *StatusError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}

	return &StatusError{StatusCode: r.StatusCode, StatusText: r.StatusText}
}

// StatusError is an upstream reply whose status was not 2xx.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded %d %s", e.StatusCode, e.StatusText)
}

// TransportErrorKind classifies failures that produced no response at all.
type TransportErrorKind int

const (
	// KindNetwork covers DNS, dial, reset and body read failures.
	KindNetwork TransportErrorKind = iota
	// KindTimeout is a per-attempt or caller deadline expiry.
	KindTimeout
	// KindCanceled is a caller cancellation.
	KindCanceled
	// KindCircuitOpen means the breaker refused the call without dialing.
	KindCircuitOpen
	// KindRequest means the request could not be built (malformed locator).
	KindRequest
)

// String returns a human-readable description of the kind.
func (k TransportErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "upstream request timed out"
	case KindCanceled:
		return "upstream request canceled"
	case KindCircuitOpen:
		return "upstream temporarily unavailable"
	case KindRequest:
		return "invalid upstream request"
	default:
		return "upstream unreachable"
	}
}

// TransportError is a failure with no status available.
type TransportError struct {
	Kind TransportErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Fetch performs a GET against locator (absolute URL or base-relative path)
// and buffers the body. It never returns an error for a received response;
// every error it does return is a *TransportError.
func (c *Client) Fetch(ctx context.Context, locator string) (*Response, error) {
	resp, err := c.Get(ctx, locator)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", slog.Any("error", closeErr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Body:       body,
	}, nil
}

// statusText strips the numeric prefix from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}

	return text
}

func classifyTransportError(err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}

	kind := KindNetwork

	var netErr net.Error
	switch {
	case errors.Is(err, ErrCircuitOpen):
		kind = KindCircuitOpen
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	case errors.Is(err, errBuildRequest):
		kind = KindRequest
	}

	return &TransportError{Kind: kind, Err: err}
}
