package handler

import (
	"github.com/gin-gonic/gin"
	applisting "github.com/hustle/backend/internal/application/listing"
)

// ProductHandler exposes listing lifecycle endpoints. The conversational
// flow drives the same transitions through buttons; these routes serve
// dashboards and operational tooling.
type ProductHandler struct {
	BaseHandler
	lifecycle *applisting.LifecycleService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(lifecycle *applisting.LifecycleService) *ProductHandler {
	return &ProductHandler{lifecycle: lifecycle}
}

// RegisterRoutes registers listing lifecycle routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	listings := rg.Group("/listings")
	{
		listings.GET("/:id", h.Get)
		listings.PATCH("/:id", h.Update)
		listings.POST("/:id/confirm", h.Confirm)
		listings.POST("/:id/cancel", h.Cancel)
		listings.POST("/:id/restore", h.Restore)
		listings.POST("/remove", h.Remove)
		listings.DELETE("/:id", h.Purge)
	}
}

// Get returns a single listing
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	resp, err := h.lifecycle.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update changes a listing's display fields and price
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req applisting.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid listing update: "+err.Error())
		return
	}

	resp, err := h.lifecycle.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Confirm publishes a draft listing to the catalog
func (h *ProductHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	resp, err := h.lifecycle.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel discards a draft intake
func (h *ProductHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.lifecycle.Cancel(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Remove soft-deletes a batch of active listings, opening the undo window
func (h *ProductHandler) Remove(c *gin.Context) {
	var req applisting.RemoveListingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid removal request: "+err.Error())
		return
	}

	removed, err := h.lifecycle.Remove(c.Request.Context(), req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"removed": removed})
}

// Restore returns a removed listing to the catalog while its undo window
// is open. A lapsed window answers 410 Gone.
func (h *ProductHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	resp, err := h.lifecycle.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Purge hard-deletes a listing from any state
func (h *ProductHandler) Purge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	if err := h.lifecycle.Purge(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
