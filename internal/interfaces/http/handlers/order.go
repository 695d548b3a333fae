// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lootportal/lootportal-api/internal/domain/order"
	"github.com/lootportal/lootportal-api/internal/interfaces/http/middleware"
	"github.com/lootportal/lootportal-api/internal/pkg/pdf"
)

// OrderHandler handles buyer-facing order endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService, pdfService: pdfService}
}

// ListOrders handles GET /orders, the caller's own orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.orderService.GetUserOrders(middleware.UserID(c), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetOrder handles GET /orders/:number
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.loadOwnOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": o})
}

// Receipt handles GET /orders/:number/receipt, a PDF download
func (h *OrderHandler) Receipt(c *gin.Context) {
	o, ok := h.loadOwnOrder(c)
	if !ok {
		return
	}

	buf, err := h.pdfService.GenerateReceipt(o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt"})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// loadOwnOrder fetches the order and enforces ownership. Admins can view
// any order.
func (h *OrderHandler) loadOwnOrder(c *gin.Context) (*order.Order, bool) {
	o, err := h.orderService.GetByNumber(c.Param("number"))
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return nil, false
	}

	adminValue, _ := c.Get("is_admin")
	isAdmin, _ := adminValue.(bool)
	userID := middleware.UserID(c)
	owns := o.UserID != nil && *o.UserID == userID
	if !owns && !isAdmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}

	return o, true
}
