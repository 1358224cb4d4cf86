package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

var errEmptyBody = errors.New("response body is empty")

// getJSON fetches path and decodes its 2xx body into a T. Transport failures
// and non-2xx replies are normalized against step; a payload that does not
// decode becomes step with the default status.
func getJSON[T any](ctx context.Context, c *PokeAPIClient, path, step string) (*T, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	resp, err := c.http.Fetch(ctx, path)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		return nil, Normalize(err, step, domain.DefaultErrorStatus)
	}

	var out T
	if err := decode(resp.Body, &out); err != nil {
		return nil, c.unusable(ctx, err, step)
	}

	return &out, nil
}

func decode(body []byte, v any) error {
	if len(body) == 0 {
		return errEmptyBody
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// unusable logs the raw cause and returns the step's generic error. A bad
// payload is the upstream's fault, never the caller's.
func (c *PokeAPIClient) unusable(ctx context.Context, err error, step string) error {
	c.logger.WarnContext(ctx, "unusable catalog payload", slog.String("step", step), slog.Any("error", err))

	return domain.NewAppError(step, domain.DefaultErrorStatus)
}
