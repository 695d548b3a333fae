// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lootportal/lootportal-api/internal/domain/checkout"
)

var (
	// ErrOrderNotFound means no order carries the given number
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder rejects a submission with no items
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidTransition rejects a status change the lifecycle forbids
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Notifier sends order lifecycle emails. Failures are logged, never fatal.
type Notifier interface {
	SendOrderPlaced(to, orderNumber string, total int64) error
	SendOrderStatusUpdate(to, orderNumber string, status Status) error
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	notifier Notifier
	logger   *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		logger:   logger,
	}
}

// ListRequest represents admin order list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ListResponse represents a paginated order list
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// PlaceOrder creates a pending order from a finished checkout draft.
// Implements the checkout order collaborator.
func (s *Service) PlaceOrder(ctx context.Context, req checkout.PlaceOrderRequest) (string, error) {
	if len(req.Items) == 0 {
		return "", ErrEmptyOrder
	}
	if req.PaymentMethod == "" || req.TransactionRef == "" {
		return "", fmt.Errorf("payment proof is incomplete")
	}

	var total int64
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return "", fmt.Errorf("invalid quantity for item %s", item.ID)
		}
		if item.UnitPrice < 0 {
			return "", fmt.Errorf("invalid price for item %s", item.ID)
		}
		total += item.UnitPrice * int64(item.Quantity)
	}

	order := Order{
		Email:          req.ContactEmail,
		Status:         StatusPending,
		TotalAmount:    total,
		Currency:       "NPR",
		Notes:          req.Notes,
		PaymentMethod:  req.PaymentMethod,
		TransactionRef: req.TransactionRef,
		ProofURL:       req.ProofURL,
	}
	if req.UserID != 0 {
		userID := req.UserID
		order.UserID = &userID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		order.OrderNumber = generateOrderNumber(order.ID)
		if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		for _, item := range req.Items {
			orderItem := OrderItem{
				OrderID:      order.ID,
				ItemID:       item.ID,
				Kind:         string(item.Kind),
				ProductID:    item.ProductID,
				Name:         item.Name,
				PackageLabel: item.PackageLabel,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
				TotalPrice:   item.UnitPrice * int64(item.Quantity),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		history := StatusHistory{
			OrderID:   order.ID,
			Status:    StatusPending,
			Comment:   fmt.Sprintf("Order placed via %s, ref %s", req.PaymentMethod, req.TransactionRef),
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if order.Email != "" {
		if err := s.notifier.SendOrderPlaced(order.Email, order.OrderNumber, order.TotalAmount); err != nil {
			s.logger.WithError(err).WithField("order_number", order.OrderNumber).
				Warn("Failed to send order confirmation email")
		}
	}

	return order.OrderNumber, nil
}

// GetByNumber retrieves one order with items and status history
func (s *Service) GetByNumber(orderNumber string) (*Order, error) {
	var order Order
	err := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &order, nil
}

// GetUserOrders retrieves a user's orders, newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ListResponse{Orders: orders, Pagination: paginate(page, limit, total)}, nil
}

// CountByStatus returns order counts per lifecycle status for the admin
// dashboard. Statuses with no orders are reported as zero.
func (s *Service) CountByStatus() (map[Status]int64, error) {
	type row struct {
		Status Status
		Count  int64
	}
	var rows []row
	err := s.db.Model(&Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	counts := map[Status]int64{
		StatusPending:   0,
		StatusConfirmed: 0,
		StatusDelivered: 0,
		StatusFailed:    0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// List retrieves orders for the admin triage view, filtered by status or
// a search over order number and email
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Order{})
	if req.Status != "" {
		if !Status(req.Status).Valid() {
			return nil, fmt.Errorf("unknown status: %s", req.Status)
		}
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		pattern := "%" + req.Search + "%"
		query = query.Where("order_number LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	sortOrder := "DESC"
	if req.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	var orders []Order
	err := query.Preload("Items").
		Order("created_at " + sortOrder).
		Offset((req.Page - 1) * req.Limit).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &ListResponse{Orders: orders, Pagination: paginate(req.Page, req.Limit, total)}, nil
}

// UpdateStatus moves an order through its lifecycle, recording history
// and notifying the buyer
func (s *Service) UpdateStatus(orderNumber string, status Status, comment string, updatedBy uint) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status: %s", status)
	}

	order, err := s.GetByNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": status}
	switch status {
	case StatusConfirmed:
		updates["confirmed_at"] = now
	case StatusDelivered:
		updates["delivered_at"] = now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		history := StatusHistory{
			OrderID:   order.ID,
			Status:    status,
			Comment:   comment,
			CreatedBy: updatedBy,
			CreatedAt: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = status
	if order.Email != "" {
		if err := s.notifier.SendOrderStatusUpdate(order.Email, order.OrderNumber, status); err != nil {
			s.logger.WithError(err).WithField("order_number", order.OrderNumber).
				Warn("Failed to send status update email")
		}
	}

	return order, nil
}

// generateOrderNumber builds the public order id, e.g. LP-20260901-00042
func generateOrderNumber(orderID uint) string {
	return fmt.Sprintf("LP-%s-%05d", time.Now().Format("20060102"), orderID)
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
