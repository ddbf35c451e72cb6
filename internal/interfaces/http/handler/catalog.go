package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hustle/backend/internal/application/catalogview"
	"github.com/hustle/backend/internal/domain/audit"
)

// CatalogHandler serves the public catalog pages and the buyer interest flow.
// These routes are unauthenticated; the slug is the only capability needed.
type CatalogHandler struct {
	BaseHandler
	catalog *catalogview.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *catalogview.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers public catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalogs := rg.Group("/c")
	{
		catalogs.GET("/:slug", h.View)
		catalogs.POST("/:slug/interest", h.SignalInterest)
	}
}

// View returns the public catalog for a slug
func (h *CatalogHandler) View(c *gin.Context) {
	resp, err := h.catalog.View(c.Request.Context(), c.Param("slug"), requestMetadata(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SignalInterest records buyer interest in a listing
func (h *CatalogHandler) SignalInterest(c *gin.Context) {
	var req catalogview.InterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid interest request: "+err.Error())
		return
	}

	resp, err := h.catalog.SignalInterest(c.Request.Context(), c.Param("slug"), req, requestMetadata(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// requestMetadata captures the network context of the request for auditing
func requestMetadata(c *gin.Context) audit.Metadata {
	return audit.Metadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
