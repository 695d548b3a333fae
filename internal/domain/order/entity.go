// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the manual-verification lifecycle of an order. Staff
// confirm the payment proof, deliver the top-up, or fail the order when
// the proof does not check out.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known order status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// Order represents the order entity
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      *uint  `gorm:"index" json:"user_id"` // Nullable for guest orders
	Email       string `gorm:"size:255" json:"email"`
	Status      Status `gorm:"not null;default:'pending'" json:"status"`

	TotalAmount int64  `gorm:"not null" json:"total_amount"` // Whole Nepali rupees
	Currency    string `gorm:"size:3;default:'NPR'" json:"currency"`
	Notes       string `gorm:"type:text" json:"notes"`

	// Payment proof captured at checkout
	PaymentMethod  string `gorm:"not null;size:20" json:"payment_method"`
	TransactionRef string `gorm:"not null;size:100" json:"transaction_ref"`
	ProofURL       string `gorm:"size:500" json:"proof_url"`

	ConfirmedAt *time.Time     `json:"confirmed_at"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents one purchased package or plan
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	ItemID       string    `gorm:"not null;size:100;index" json:"item_id"`
	Kind         string    `gorm:"not null;size:20" json:"kind"` // game or subscription
	ProductID    string    `gorm:"not null;size:100" json:"product_id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	PackageLabel string    `gorm:"size:100" json:"package_label"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPrice    int64     `gorm:"not null" json:"unit_price"`
	TotalPrice   int64     `gorm:"not null" json:"total_price"` // Quantity * UnitPrice
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedBy uint      `gorm:"index" json:"created_by"` // Staff user who made the change
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (OrderItem) TableName() string     { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// IsTerminal reports whether the order reached a final status
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusFailed
}

// CanTransitionTo validates a status change. Pending orders are either
// confirmed or failed; confirmed orders are delivered or failed.
func (o *Order) CanTransitionTo(to Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusFailed},
		StatusConfirmed: {StatusDelivered, StatusFailed},
	}

	for _, allowed := range validTransitions[o.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}
