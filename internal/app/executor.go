package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

// Use cases run as validate → perform → verify → archive. Archive is the only
// step allowed to change service state (the list cache), and it runs only
// after perform and verify succeeded, so a failed refresh can never replace
// a good cached entry.

// ExecutionStep names a stage of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
)

// ExecutionError records the step an operation stopped at.
// Unwrap exposes the cause, so an *domain.AppError survives errors.As.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep extracts the failing step from err's chain.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation is one use case. Perform is required; the other steps are optional.
type Operation[I, O any] struct {
	// Name identifies the operation in logs and spans.
	Name string

	// Validate rejects bad input before any upstream call.
	Validate func(ctx context.Context, input I) error

	// Perform does the upstream work.
	Perform func(ctx context.Context, input I) (O, error)

	// Verify checks and may reshape what Perform produced.
	Verify func(ctx context.Context, input I, result O) (O, error)

	// Archive persists a verified result.
	Archive func(ctx context.Context, input I, result O) error
}

// Executor runs Operations with step logging and a span per operation.
type Executor struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewExecutor creates an executor. A nil logger means slog.Default().
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
	}
}

// Execute runs op against input and returns the verified result.
func Execute[I, O any](ctx context.Context, exec *Executor, op Operation[I, O], input I) (O, error) {
	var zero O

	ctx, span := exec.tracer.Start(ctx, op.Name)
	defer span.End()

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) (O, error) {
		span.SetAttributes(attribute.String("operation.failed_step", string(step)))
		span.SetStatus(codes.Error, err.Error())

		level := failureLevel(step, err)
		logger.Log(ctx, level, "operation failed",
			slog.String("step", string(step)),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))

		return zero, &ExecutionError{Operation: op.Name, Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	if op.Perform == nil {
		return fail(StepPerform, errors.New("no perform step"))
	}

	result, err := op.Perform(ctx, input)
	if err != nil {
		return fail(StepPerform, err)
	}

	if op.Verify != nil {
		if result, err = op.Verify(ctx, input, result); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, input, result); err != nil {
			return fail(StepArchive, err)
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// failureLevel keeps client-caused failures (bad input, unknown names) at
// Warn so that Error is left for upstream outages and bugs.
func failureLevel(step ExecutionStep, err error) slog.Level {
	if step == StepValidate {
		return slog.LevelWarn
	}

	if appErr, ok := domain.AsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}

	return slog.LevelError
}
