package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/shoplens/backend/internal/domain"
	"github.com/shoplens/backend/internal/infrastructure/catalog"
	"github.com/shoplens/backend/internal/logging"
	"github.com/shoplens/backend/internal/usecase"
)

// SearchService is the query side the handlers depend on
type SearchService interface {
	Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	Analyze(query string) usecase.QueryAnalysis
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// CatalogRefresher reloads the catalog on demand
type CatalogRefresher interface {
	Refresh(ctx context.Context) (catalog.RefreshStats, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchService
	refresher     CatalogRefresher
	logger        zerolog.Logger
}

// NewHandler creates a new HTTP handler. Either dependency may be nil, in
// which case the endpoints using it answer 503.
func NewHandler(searchService SearchService, refresher CatalogRefresher, logger zerolog.Logger) *Handler {
	return &Handler{
		searchService: searchService,
		refresher:     refresher,
		logger:        logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shoplens-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /api/v1/products/search?q=&sort=&page=&pageSize=
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.requireSearch(c) {
		return
	}

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.requireSearch(c) {
		return
	}

	product, err := h.searchService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ParseQuery handles GET /api/v1/query/parse?q= and shows how a query is read
func (h *Handler) ParseQuery(c *gin.Context) {
	if !h.requireSearch(c) {
		return
	}

	c.JSON(http.StatusOK, h.searchService.Analyze(c.Query("q")))
}

// ListBrands handles GET /api/v1/catalog/brands
func (h *Handler) ListBrands(c *gin.Context) {
	if !h.requireSearch(c) {
		return
	}

	brands, err := h.searchService.Brands(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *Handler) ListCategories(c *gin.Context) {
	if !h.requireSearch(c) {
		return
	}

	categories, err := h.searchService.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if h.refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Catalog refresh not configured",
		})
		return
	}

	stats, err := h.refresher.Refresh(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) requireSearch(c *gin.Context) bool {
	if h.searchService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Search service not configured",
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status, message = http.StatusNotFound, "Product not found"
	case errors.Is(err, domain.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status, message = http.StatusServiceUnavailable, "Catalog not loaded yet"
	case errors.Is(err, domain.ErrCatalogSourceFailure):
		status, message = http.StatusBadGateway, "Catalog source temporarily unavailable"
	}

	logger := logging.FromContext(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	c.JSON(status, gin.H{"error": message})
}
