// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Upstream payload shapes (that's the ACL)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/ports"
)

const (
	// instrumentationName is used for the OpenTelemetry meter.
	instrumentationName = "github.com/jsamuelsen/pokedex-service/internal/app"

	// DefaultBatchSize is the number of detail fetches in flight at once.
	DefaultBatchSize = 50

	// MaxNameLength bounds the single-item lookup key.
	MaxNameLength = 100

	msgListAllFailed = "Failed to fetch pokemon list"
	msgGetOneFailed  = "Failed to fetch pokemon"
)

// CatalogServiceConfig contains configuration for the catalog service.
type CatalogServiceConfig struct {
	// Client is the upstream catalog. Required.
	Client ports.CatalogClient

	// BatchSize is the detail fetch concurrency. Non-positive means DefaultBatchSize.
	BatchSize int

	// CacheTTL is the list cache freshness window. Non-positive means DefaultCacheTTL.
	CacheTTL time.Duration

	// SortByName sorts the aggregated list by name. Off by default: upstream order is kept.
	SortByName bool

	// Clock overrides time.Now for cache freshness checks.
	Clock func() time.Time

	Logger *slog.Logger
}

// CatalogService orchestrates the "list all" and "get one" use cases.
// It depends on port interfaces, not concrete implementations.
type CatalogService struct {
	client     ports.CatalogClient
	cache      *ResultCache[[]domain.Summary]
	executor   *Executor
	batchSize  int
	sortByName bool
	logger     *slog.Logger

	cacheLookups  metric.Int64Counter
	batchDuration metric.Float64Histogram
}

// NewCatalogService creates a catalog service with its own result cache.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	if cfg.Client == nil {
		panic("CatalogService: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.CatalogService"))

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	meter := otel.Meter(instrumentationName)

	cacheLookups, err := meter.Int64Counter(
		"catalog.cache.lookups",
		metric.WithDescription("Catalog list cache lookups by result"),
	)
	if err != nil {
		logger.Warn("creating cache lookup counter", slog.Any("error", err))
	}

	batchDuration, err := meter.Float64Histogram(
		"catalog.batch.duration",
		metric.WithDescription("Duration of one batch of detail fetches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Warn("creating batch duration histogram", slog.Any("error", err))
	}

	return &CatalogService{
		client:        cfg.Client,
		cache:         NewResultCache[[]domain.Summary](cfg.CacheTTL, cfg.Clock),
		executor:      NewExecutor(logger),
		batchSize:     batchSize,
		sortByName:    cfg.SortByName,
		logger:        logger,
		cacheLookups:  cacheLookups,
		batchDuration: batchDuration,
	}
}

// ListAll returns every catalog entry as a Summary.
// A fresh cached list is returned as is (same backing array on every hit).
// On a miss the catalog is re-aggregated; only a successful aggregation
// replaces the cached entry. Concurrent misses may each aggregate.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Summary, error) {
	if cached, ok := s.cache.Lookup(); ok {
		s.recordLookup(ctx, "hit")
		s.logger.DebugContext(ctx, "serving catalog from cache", slog.Int("entries", len(cached)))
		return cached, nil
	}

	s.recordLookup(ctx, "miss")

	summaries, err := Execute(ctx, s.executor, Operation[struct{}, []domain.Summary]{
		Name: "catalog.refresh",
		Perform: func(ctx context.Context, _ struct{}) ([]domain.Summary, error) {
			return s.aggregate(ctx)
		},
		Verify: func(_ context.Context, _ struct{}, summaries []domain.Summary) ([]domain.Summary, error) {
			if s.sortByName {
				slices.SortStableFunc(summaries, func(a, b domain.Summary) int {
					return strings.Compare(a.Name, b.Name)
				})
			}
			return summaries, nil
		},
		Archive: func(_ context.Context, _ struct{}, summaries []domain.Summary) error {
			s.cache.Store(summaries)
			return nil
		},
	}, struct{}{})
	if err != nil {
		return nil, asAppError(err, msgListAllFailed)
	}

	return summaries, nil
}

// aggregate runs count, full listing, then batched detail resolution.
// Each step aborts the rest on failure.
func (s *CatalogService) aggregate(ctx context.Context) ([]domain.Summary, error) {
	count, err := s.client.Count(ctx)
	if err != nil {
		return nil, err
	}

	// The listing endpoint treats limit=0 as "default page", so an empty catalog stops here.
	if count <= 0 {
		return []domain.Summary{}, nil
	}

	locators, err := s.client.ListLocators(ctx, count)
	if err != nil {
		return nil, err
	}

	return s.fetchSummaries(ctx, locators)
}

// fetchSummaries resolves locators in batches of batchSize, preserving order.
func (s *CatalogService) fetchSummaries(ctx context.Context, locators []string) ([]domain.Summary, error) {
	fetched, err := FetchInBatches(ctx, s.batchSize, locators, s.client.FetchSummary,
		func(size int, elapsed time.Duration) {
			if s.batchDuration != nil {
				s.batchDuration.Record(ctx, elapsed.Seconds(),
					metric.WithAttributes(attribute.Int("batch.size", size)))
			}
			s.logger.DebugContext(ctx, "batch resolved",
				slog.Int("size", size),
				slog.Duration("duration", elapsed))
		})
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.Summary, 0, len(fetched))
	for _, summary := range fetched {
		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

// GetByName returns the full record for one entry. Lookup is case-insensitive
// and never cached. An unknown name surfaces the upstream 404.
func (s *CatalogService) GetByName(ctx context.Context, name string) (*domain.Detail, error) {
	detail, err := Execute(ctx, s.executor, Operation[string, *domain.Detail]{
		Name: "catalog.get",
		Validate: func(_ context.Context, name string) error {
			return ValidateName(name)
		},
		Perform: func(ctx context.Context, name string) (*domain.Detail, error) {
			return s.client.FetchDetail(ctx, NormalizeName(name))
		},
		Verify: func(_ context.Context, _ string, detail *domain.Detail) (*domain.Detail, error) {
			if detail == nil {
				return nil, domain.NewAppError(msgGetOneFailed, domain.DefaultErrorStatus)
			}
			return detail, nil
		},
	}, name)
	if err != nil {
		return nil, asAppError(err, msgGetOneFailed)
	}

	return detail, nil
}

// ClearCache drops the cached list so the next ListAll re-aggregates.
func (s *CatalogService) ClearCache(ctx context.Context) {
	s.cache.Clear()
	s.logger.InfoContext(ctx, "catalog cache cleared")
}

// NormalizeName folds a lookup key to the upstream's canonical lowercase form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateName rejects empty or oversized lookup keys before any upstream call.
// Length is counted in characters of the trimmed name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.NewValidationError("name", "is required")
	}

	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return domain.NewValidationError("name", fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}

	return nil
}

func (s *CatalogService) recordLookup(ctx context.Context, result string) {
	if s.cacheLookups == nil {
		return
	}

	s.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// asAppError returns the AppError in err's chain, or a generic one built from fallback.
func asAppError(err error, fallback string) *domain.AppError {
	if appErr, ok := domain.AsAppError(err); ok {
		return appErr
	}

	return domain.NewAppError(fallback, domain.DefaultErrorStatus)
}
