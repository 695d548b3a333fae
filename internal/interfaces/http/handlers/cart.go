// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/cart"
	"github.com/lootportal/lootportal-api/internal/domain/catalog"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, catalogService *catalog.Service, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		config:         cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resp, err := h.cartService.Get(c.Request.Context(), sessionID(c, h.config))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// AddItemRequest represents an add-to-cart request. Only the item id is
// trusted; name and price come from the catalog.
type AddItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	candidate, err := h.catalogService.ResolveItem(req.ItemID)
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve item"})
		return
	}

	resp, err := h.cartService.AddItem(c.Request.Context(), sessionID(c, h.config), *candidate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "data": resp})
}

// UpdateQuantityRequest represents a quantity change
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /cart/items/:id. A quantity of zero or less
// removes the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	resp, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID(c, h.config), c.Param("id"), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	resp, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c, h.config), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), sessionID(c, h.config)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Count handles GET /cart/count, used for the header badge
func (h *CartHandler) Count(c *gin.Context) {
	count, err := h.cartService.Count(c.Request.Context(), sessionID(c, h.config))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
}

// PanelRequest represents the slide-over panel visibility
type PanelRequest struct {
	Open bool `json:"open"`
}

// SetPanel handles PUT /cart/panel
func (h *CartHandler) SetPanel(c *gin.Context) {
	var req PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	resp, err := h.cartService.SetPanelOpen(c.Request.Context(), sessionID(c, h.config), req.Open)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart panel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
