// Package clients is the outbound HTTP layer: retries, circuit breaking,
// header propagation and client metrics for one upstream.
package clients

import "errors"

// Infrastructure failures. Callers translate them; they never reach a response
// body as-is.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once every retry
	// has been spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")

	errBuildRequest = errors.New("creating request")
)
