package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/pokedex-service/internal/app"
	"github.com/jsamuelsen/pokedex-service/internal/domain"
)

// CatalogHandler handles the creature catalog endpoints.
type CatalogHandler struct {
	service *app.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// SummaryResponse is one entry of the list response. Image is left out when
// no sprite resolved.
type SummaryResponse struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
	Image *string  `json:"image,omitempty"`
}

// DetailResponse is the single-item response.
type DetailResponse struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	Height         int           `json:"height"`
	Weight         int           `json:"weight"`
	BaseExperience int           `json:"baseExperience"`
	Abilities      []string      `json:"abilities"`
	Types          []string      `json:"types"`
	Images         []string      `json:"images"`
	Stats          StatsResponse `json:"stats"`
}

// StatsResponse uses underscores for the two-word stat names.
type StatsResponse struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

// toSummaryResponses converts domain summaries to the list response.
// Sequences are never null in the output.
func toSummaryResponses(summaries []domain.Summary) []SummaryResponse {
	out := make([]SummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = SummaryResponse{
			Name:  s.Name,
			Types: orEmpty(s.Types),
			Image: s.Image,
		}
	}

	return out
}

// toDetailResponse converts a domain Detail to the single-item response.
func toDetailResponse(d *domain.Detail) *DetailResponse {
	return &DetailResponse{
		ID:             d.ID,
		Name:           d.Name,
		Height:         d.Height,
		Weight:         d.Weight,
		BaseExperience: d.BaseExperience,
		Abilities:      orEmpty(d.Abilities),
		Types:          orEmpty(d.Types),
		Images:         orEmpty(d.Images),
		Stats: StatsResponse{
			HP:             d.Stats.HP,
			Attack:         d.Stats.Attack,
			Defense:        d.Stats.Defense,
			SpecialAttack:  d.Stats.SpecialAttack,
			SpecialDefense: d.Stats.SpecialDefense,
			Speed:          d.Stats.Speed,
		},
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ListAll handles GET /api/pokemons
// Returns every catalog entry in upstream order, served from cache when fresh.
//
// @Summary List all creatures
// @Tags pokemons
// @Produce json
// @Success 200 {array} SummaryResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/pokemons [get]
func (h *CatalogHandler) ListAll(c *gin.Context) {
	summaries, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponses(summaries))
}

// GetByName handles GET /api/pokemons/:name
// The lookup is case-insensitive and always goes upstream.
//
// @Summary Get one creature by name
// @Tags pokemons
// @Produce json
// @Param name path string true "Creature name"
// @Success 200 {object} DetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/pokemons/{name} [get]
func (h *CatalogHandler) GetByName(c *gin.Context) {
	var param dto.NameParam
	if err := dto.BindURI(c, &param); err != nil {
		dto.HandleError(c, dto.ValidationAppError(err))
		return
	}

	detail, err := h.service.GetByName(c.Request.Context(), param.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetailResponse(detail))
}

// ClearCache handles DELETE /-/cache
// Drops the cached list so the next list request re-aggregates.
func (h *CatalogHandler) ClearCache(c *gin.Context) {
	h.service.ClearCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// preflight answers OPTIONS requests that got past the CORS middleware.
func preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RegisterCatalogRoutes registers the public catalog routes on the given group.
func (h *CatalogHandler) RegisterCatalogRoutes(rg *gin.RouterGroup) {
	pokemons := rg.Group("/pokemons")
	pokemons.GET("", h.ListAll)
	pokemons.GET("/:name", h.GetByName)
	pokemons.OPTIONS("", preflight)
	pokemons.OPTIONS("/:name", preflight)
}

// RegisterAdminRoutes registers operator routes on the internal group.
func (h *CatalogHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/cache", h.ClearCache)
}
