package ports

import (
	"context"
	"time"
)

// HealthChecker is a dependency the readiness probe depends on. Check must
// honor ctx; a nil error means ready.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them for readiness.
type HealthRegistry interface {
	// Register fails with ErrDuplicateChecker if the name is taken.
	Register(checker HealthChecker) error

	// CheckAll may return a recent result instead of running the checks again.
	CheckAll(ctx context.Context) *HealthResult
}

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the outcome of one CheckAll run. Status is unhealthy if
// any check is.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}
