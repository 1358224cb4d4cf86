package acl

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/clients"
	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

// Client-facing messages, one per failing step.
const (
	MsgCountFailed   = "Failed to fetch pokemon count"
	MsgListFailed    = "Failed to fetch pokemon list"
	MsgDetailsFailed = "Failed to fetch pokemon details"
	MsgItemFailed    = "Failed to fetch pokemon"
)

const healthCheckName = "pokeapi"

type PokeAPIClientConfig struct {
	// Client must point at the API root, e.g. https://pokeapi.co/api/v2.
	Client *clients.Client
	Logger *slog.Logger
}

// PokeAPIClient implements ports.CatalogClient and ports.HealthChecker
// against PokeAPI.
type PokeAPIClient struct {
	http   *clients.Client
	logger *slog.Logger
}

// NewPokeAPIClient panics without a Client. A nil Logger uses the default.
func NewPokeAPIClient(cfg PokeAPIClientConfig) *PokeAPIClient {
	if cfg.Client == nil {
		panic("PokeAPIClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &PokeAPIClient{http: cfg.Client, logger: logger}
}

// Count asks for a one-entry page and returns the reported total.
func (c *PokeAPIClient) Count(ctx context.Context) (int, error) {
	list, err := getJSON[listResponse](ctx, c, "/pokemon?limit=1", MsgCountFailed)
	if err != nil {
		return 0, err
	}

	c.logger.DebugContext(ctx, "fetched catalog count", slog.Int("count", list.Count))

	return list.Count, nil
}

// ListLocators returns the detail URLs of the first limit entries in
// upstream order.
func (c *PokeAPIClient) ListLocators(ctx context.Context, limit int) ([]string, error) {
	list, err := getJSON[listResponse](ctx, c, "/pokemon?limit="+strconv.Itoa(limit), MsgListFailed)
	if err != nil {
		return nil, err
	}

	locators := make([]string, len(list.Results))
	for i, entry := range list.Results {
		locators[i] = entry.URL
	}

	c.logger.DebugContext(ctx, "fetched catalog listing", slog.Int("entries", len(locators)))

	return locators, nil
}

func (c *PokeAPIClient) FetchSummary(ctx context.Context, locator string) (*domain.Summary, error) {
	ext, err := getJSON[rawDetail](ctx, c, locator, MsgDetailsFailed)
	if err != nil {
		return nil, err
	}

	summary, err := translateSummary(ext)
	if err != nil {
		return nil, c.unusable(ctx, err, MsgDetailsFailed)
	}

	return summary, nil
}

// FetchDetail looks name up verbatim. A non-2xx reply keeps its status, so
// an unknown name yields 404 "Not Found".
func (c *PokeAPIClient) FetchDetail(ctx context.Context, name string) (*domain.Detail, error) {
	ext, err := getJSON[rawDetail](ctx, c, "/pokemon/"+url.PathEscape(name), MsgItemFailed)
	if err != nil {
		return nil, err
	}

	detail, err := translateDetail(ext)
	if err != nil {
		return nil, c.unusable(ctx, err, MsgItemFailed)
	}

	c.logger.Log(ctx, logging.LevelTrace, "resolved detail", slog.Int("id", detail.ID), slog.String("name", detail.Name))

	return detail, nil
}

func (c *PokeAPIClient) Name() string {
	return healthCheckName
}

// Check runs the count query, the cheapest call the upstream offers.
func (c *PokeAPIClient) Check(ctx context.Context) error {
	_, err := c.Count(ctx)
	return err
}
