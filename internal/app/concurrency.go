package app

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// MapLimit applies fn to every input with at most limit calls in flight and
// returns the outputs in input order. The first error cancels the context the
// remaining calls see and is returned as-is, with no partial output.
func MapLimit[In, Out any](ctx context.Context, limit int, in []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	out := make([]Out, len(in))
	for i, v := range in {
		g.Go(func() (err error) {
			out[i], err = fn(ctx, v)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchInBatches resolves locators in contiguous chunks of width. A chunk
// runs fully concurrent and must finish before the next starts, so at most
// width fetches are ever in flight. The first failure aborts the whole call;
// chunks after it never start. Output order equals input order.
//
// onChunk, if set, sees each completed chunk's size and duration.
func FetchInBatches[T any](
	ctx context.Context,
	width int,
	locators []string,
	fetch func(context.Context, string) (T, error),
	onChunk func(size int, elapsed time.Duration),
) ([]T, error) {
	width = max(width, 1)
	results := make([]T, 0, len(locators))

	for chunk := range slices.Chunk(locators, width) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		began := time.Now()
		resolved, err := MapLimit(ctx, width, chunk, fetch)
		if err != nil {
			return nil, err
		}
		results = append(results, resolved...)

		if onChunk != nil {
			onChunk(len(chunk), time.Since(began))
		}
	}

	return results, nil
}
