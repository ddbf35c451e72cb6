package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	applisting "github.com/hustle/backend/internal/application/listing"
	appseller "github.com/hustle/backend/internal/application/seller"
	"github.com/hustle/backend/internal/domain/listing"
	"github.com/hustle/backend/internal/domain/shared"
	"github.com/hustle/backend/internal/interfaces/http/dto"
)

// SellerHandler exposes seller profile and catalog management endpoints
type SellerHandler struct {
	BaseHandler
	sellers   *appseller.Service
	lifecycle *applisting.LifecycleService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(sellers *appseller.Service, lifecycle *applisting.LifecycleService) *SellerHandler {
	return &SellerHandler{
		sellers:   sellers,
		lifecycle: lifecycle,
	}
}

// RegisterRoutes registers seller management routes
func (h *SellerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sellers := rg.Group("/sellers")
	{
		sellers.GET("/:channel_id", h.Get)
		sellers.PATCH("/:channel_id", h.UpdateProfile)
		sellers.GET("/:channel_id/stats", h.Stats)
		sellers.GET("/:channel_id/listings", h.ListListings)
	}
}

// Get returns the seller bound to a channel identifier
func (h *SellerHandler) Get(c *gin.Context) {
	resp, err := h.sellers.GetByChannelID(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile updates the seller's display name and activation flag
func (h *SellerHandler) UpdateProfile(c *gin.Context) {
	var req appseller.UpdateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid profile update: "+err.Error())
		return
	}

	resp, err := h.sellers.UpdateProfile(c.Request.Context(), c.Param("channel_id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats returns listing and interest counts for a seller
func (h *SellerHandler) Stats(c *gin.Context) {
	resp, err := h.sellers.Stats(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListListings returns a seller's listings with optional status filtering
func (h *SellerHandler) ListListings(c *gin.Context) {
	account, err := h.sellers.GetByChannelID(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid list parameters: "+err.Error())
		return
	}

	var status *listing.Status
	if raw := c.Query("status"); raw != "" {
		s := listing.Status(raw)
		switch s {
		case listing.StatusDraft, listing.StatusActive, listing.StatusRemoved:
			status = &s
		default:
			h.BadRequest(c, "Unknown listing status: "+raw)
			return
		}
	}

	page, err := h.lifecycle.ListBySeller(c.Request.Context(), account.ID, status, toFilter(listReq))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// toFilter maps list request parameters onto a repository filter
func toFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}

// parseID parses the :id path parameter as a UUID
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
