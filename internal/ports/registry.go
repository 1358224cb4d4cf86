package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var ErrDuplicateChecker = errors.New("duplicate health checker")

const (
	// DefaultCheckTimeout bounds each check unless ctx expires first.
	DefaultCheckTimeout = 3 * time.Second

	// DefaultResultTTL is how long a CheckAll result is reused. Readiness
	// probes arrive every few seconds and each check hits the public upstream.
	DefaultResultTTL = 10 * time.Second
)

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout sets the per-check timeout. Non-positive disables it.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) { r.checkTimeout = d }
}

// WithResultTTL sets how long results are reused. Non-positive disables reuse.
func WithResultTTL(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) { r.resultTTL = d }
}

// DefaultHealthRegistry runs its checkers concurrently.
// Concurrent CheckAll calls within the TTL share one result.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker

	checkTimeout time.Duration
	resultTTL    time.Duration
	now          func() time.Time

	lastMu sync.Mutex
	last   *HealthResult
}

func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{
		checkTimeout: DefaultCheckTimeout,
		resultTTL:    DefaultResultTTL,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker and drops any reused result so the next CheckAll
// includes it.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	r.lastMu.Lock()
	r.last = nil
	r.lastMu.Unlock()

	return nil
}

// CheckAll runs all registered checks concurrently, or returns the previous
// result if it is younger than the TTL. Callers must not modify the result.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.lastMu.Lock()
	defer r.lastMu.Unlock()

	if r.last != nil && r.resultTTL > 0 && r.now().Sub(r.last.Timestamp) < r.resultTTL {
		return r.last
	}

	result := r.runChecks(ctx)

	// A result produced under a canceled caller says nothing about the checkers.
	if ctx.Err() == nil {
		r.last = result
	}

	return result
}

func (r *DefaultHealthRegistry) runChecks(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: r.now(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, checker := range checkers {
		wg.Go(func() {
			checkResult := r.runCheck(ctx, checker)

			mu.Lock()
			defer mu.Unlock()

			result.Checks[checker.Name()] = checkResult
			if checkResult.Status == HealthStatusUnhealthy {
				result.Status = HealthStatusUnhealthy
			}
		})
	}

	wg.Wait()

	return result
}

func (r *DefaultHealthRegistry) runCheck(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := checker.Check(ctx); err != nil {
		return &CheckResult{Status: HealthStatusUnhealthy, Message: err.Error(), Duration: time.Since(start)}
	}

	return &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
}
