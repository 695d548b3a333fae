// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/catalog"
)

// CatalogHandler handles catalog endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
	config         *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, config: cfg}
}

// ListGames handles GET /games
func (h *CatalogHandler) ListGames(c *gin.Context) {
	var req catalog.GameListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	games, err := h.catalogService.ListGames(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": games})
}

// GetGame handles GET /games/:slug
func (h *CatalogHandler) GetGame(c *gin.Context) {
	game, err := h.catalogService.GetGame(c.Param("slug"))
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": game})
}

// ListSubscriptions handles GET /subscriptions
func (h *CatalogHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.catalogService.ListSubscriptions(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subs})
}

// GetSubscription handles GET /subscriptions/:slug
func (h *CatalogHandler) GetSubscription(c *gin.Context) {
	sub, err := h.catalogService.GetSubscription(c.Param("slug"))
	if errors.Is(err, catalog.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sub})
}

// Categories handles GET /games/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalogService.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// PaymentChannels handles GET /payment-channels. The payment step shows
// each wallet's display name, receiving account and QR code.
func (h *CatalogHandler) PaymentChannels(c *gin.Context) {
	channels := []gin.H{}
	for _, id := range []string{"esewa", "khalti", "ime"} {
		channel, ok := h.config.Channel(id)
		if !ok {
			continue
		}
		channels = append(channels, gin.H{
			"id":           id,
			"display_name": channel.DisplayName,
			"account_id":   channel.AccountID,
			"qr_image":     channel.QRImagePath,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": channels})
}
