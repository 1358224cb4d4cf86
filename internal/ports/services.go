// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Errors crossing a port are *domain.AppError values
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/pokedex-service/internal/domain"
)

// CatalogClient is the upstream creature catalog.
// Every method fails with a *domain.AppError whose message names the step
// that failed, so callers can return errors unchanged.
type CatalogClient interface {
	// Count returns the total number of catalog entries (count-only query, page size 1).
	Count(ctx context.Context) (int, error)

	// ListLocators returns the detail locator of the first limit entries in upstream order.
	ListLocators(ctx context.Context, limit int) ([]string, error)

	// FetchSummary retrieves one detail record by locator and resolves it to a Summary.
	FetchSummary(ctx context.Context, locator string) (*domain.Summary, error)

	// FetchDetail retrieves one detail record by name and resolves it to a Detail.
	// The name is used verbatim; case folding is the caller's concern.
	FetchDetail(ctx context.Context, name string) (*domain.Detail, error)
}
