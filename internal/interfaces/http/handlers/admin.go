// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lootportal/lootportal-api/internal/domain/order"
	"github.com/lootportal/lootportal-api/internal/interfaces/http/middleware"
)

// AdminHandler handles the staff order-triage endpoints
type AdminHandler struct {
	orderService *order.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(orderService *order.Service) *AdminHandler {
	return &AdminHandler{orderService: orderService}
}

// Dashboard handles GET /admin/dashboard with order counts per status
func (h *AdminHandler) Dashboard(c *gin.Context) {
	counts, err := h.orderService.CountByStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"total_orders":  total,
		"status_counts": counts,
	}})
}

// ListOrders handles GET /admin/orders with status filter and search
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.orderService.List(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetOrder handles GET /admin/orders/:number
func (h *AdminHandler) GetOrder(c *gin.Context) {
	o, err := h.orderService.GetByNumber(c.Param("number"))
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": o})
}

// UpdateStatusRequest represents an order status change
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// UpdateOrderStatus handles PUT /admin/orders/:number/status
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	o, err := h.orderService.UpdateStatus(c.Param("number"), order.Status(req.Status), req.Comment, middleware.UserID(c))
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	} else if errors.Is(err, order.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "data": o})
}
