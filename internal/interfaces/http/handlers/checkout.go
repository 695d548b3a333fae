// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lootportal/lootportal-api/internal/config"
	"github.com/lootportal/lootportal-api/internal/domain/cart"
	"github.com/lootportal/lootportal-api/internal/domain/catalog"
	"github.com/lootportal/lootportal-api/internal/domain/checkout"
	"github.com/lootportal/lootportal-api/internal/domain/proof"
	"github.com/lootportal/lootportal-api/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the checkout flow endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	catalogService  *catalog.Service
	proofService    *proof.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, catalogService *catalog.Service, proofService *proof.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		catalogService:  catalogService,
		proofService:    proofService,
		config:          cfg,
	}
}

// StartRequest optionally names explicit items for a direct buy-now flow.
// Without them the live cart is used.
type StartRequest struct {
	Items []StartItem `json:"items"`
}

// StartItem is one explicit checkout line
type StartItem struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// Start handles POST /checkout
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req StartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
			return
		}
	}

	explicit := make([]cart.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		candidate, err := h.catalogService.ResolveItem(item.ItemID)
		if errors.Is(err, catalog.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found: " + item.ItemID})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve item"})
			return
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		explicit = append(explicit, cart.LineItem{
			ID:           candidate.ID,
			Kind:         candidate.Kind,
			ProductID:    candidate.ProductID,
			PackageID:    candidate.PackageID,
			Name:         candidate.Name,
			PackageLabel: candidate.PackageLabel,
			UnitPrice:    candidate.UnitPrice,
			Quantity:     quantity,
			ImageURL:     candidate.ImageURL,
		})
	}

	draft, err := h.checkoutService.Start(c.Request.Context(), sessionID(c, h.config), middleware.UserID(c), explicit)
	if errors.Is(err, checkout.ErrNoItems) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to check out", "redirect": "/games"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": draft})
}

// Get handles GET /checkout/:id
func (h *CheckoutHandler) Get(c *gin.Context) {
	draft, err := h.checkoutService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, draft, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// ContactRequest represents the Contact step fields, both optional
type ContactRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// SetContact handles PUT /checkout/:id/contact
func (h *CheckoutHandler) SetContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	draft, err := h.checkoutService.SetContact(c.Request.Context(), c.Param("id"), req.Email, req.Notes)
	if err != nil {
		h.renderError(c, draft, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// PaymentRequest carries the wallet selection and transaction reference
type PaymentRequest struct {
	Method         string `json:"method" binding:"required"`
	TransactionRef string `json:"transaction_ref"`
}

// SetPayment handles PUT /checkout/:id/payment
func (h *CheckoutHandler) SetPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	draft, err := h.checkoutService.SetPayment(c.Request.Context(), c.Param("id"),
		checkout.PaymentMethod(req.Method), req.TransactionRef)
	if err != nil {
		h.renderError(c, draft, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// UploadProof handles POST /checkout/:id/proof. A new screenshot
// replaces the previous one and releases its file.
func (h *CheckoutHandler) UploadProof(c *gin.Context) {
	file, header, err := c.Request.FormFile("screenshot")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Screenshot file is required"})
		return
	}
	defer file.Close()

	stored, err := h.proofService.Store(file, header)
	if errors.Is(err, proof.ErrFileTooLarge) || errors.Is(err, proof.ErrUnsupportedFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store screenshot"})
		return
	}

	draft, err := h.checkoutService.AttachProof(c.Request.Context(), c.Param("id"), checkout.ProofImage{
		OriginalName: stored.OriginalName,
		Filename:     stored.Filename,
		Path:         stored.Path,
		URL:          stored.URL,
		Size:         stored.Size,
		MimeType:     stored.MimeType,
	})
	if err != nil {
		// The draft is gone or finished; release the file we just stored
		h.proofService.Remove(stored.Path)
		h.renderError(c, draft, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// Next handles POST /checkout/:id/next
func (h *CheckoutHandler) Next(c *gin.Context) {
	draft, err := h.checkoutService.Next(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, draft, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// Back handles POST /checkout/:id/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	draft, err := h.checkoutService.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, draft, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft})
}

// Submit handles POST /checkout/:id/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	draft, err := h.checkoutService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, draft, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order placed",
		"data":    draft,
	})
}

// Abandon handles DELETE /checkout/:id
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	if err := h.checkoutService.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to abandon checkout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checkout abandoned"})
}

// renderError maps checkout errors to HTTP responses. Guard failures
// return the current draft so the client can highlight the missing field.
func (h *CheckoutHandler) renderError(c *gin.Context, draft *checkout.Draft, err error) {
	switch {
	case errors.Is(err, checkout.ErrDraftNotFound), errors.Is(err, checkout.ErrDraftDiscarded):
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
	case errors.Is(err, checkout.ErrPaymentMethodRequired),
		errors.Is(err, checkout.ErrTransactionRefRequired),
		errors.Is(err, checkout.ErrProofRequired),
		errors.Is(err, checkout.ErrUnknownPaymentMethod):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "data": draft})
	case errors.Is(err, checkout.ErrInvalidTransition), errors.Is(err, checkout.ErrFlowFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "data": draft})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission already in progress"})
	case errors.Is(err, checkout.ErrSubmissionFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Order submission failed, please retry", "data": draft})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout operation failed"})
	}
}
