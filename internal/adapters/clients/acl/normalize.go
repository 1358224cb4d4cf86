package acl

import (
	"errors"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/clients"
	"github.com/jsamuelsen/pokedex-service/internal/domain"
)

// Normalize converts any failure into a *domain.AppError. It never returns nil.
//
//   - An AppError already in the chain is returned as is.
//   - A *clients.StatusError keeps its status; its status text becomes the message.
//   - A *clients.TransportError has no status, so defaultStatus is used and the
//     message is the fallback qualified by the failure kind.
//   - Anything else (including nil) yields AppError(fallback, defaultStatus).
func Normalize(err error, fallback string, defaultStatus int) *domain.AppError {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr
	}

	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.StatusText
		if message == "" {
			message = fallback
		}

		status := statusErr.StatusCode
		if status <= 0 {
			status = defaultStatus
		}

		return domain.NewAppError(message, status)
	}

	var transportErr *clients.TransportError
	if errors.As(err, &transportErr) {
		return domain.NewAppError(fallback+": "+transportErr.Kind.String(), defaultStatus)
	}

	return domain.NewAppError(fallback, defaultStatus)
}
