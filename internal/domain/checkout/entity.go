// internal/domain/checkout/entity.go
package checkout

import (
	"time"

	"github.com/lootportal/lootportal-api/internal/domain/cart"
)

// Step is the position in the checkout flow
type Step string

const (
	StepContact   Step = "contact"
	StepPayment   Step = "payment"
	StepReview    Step = "review"
	StepConfirmed Step = "confirmed"
)

// IsTerminal reports whether the flow has finished. A confirmed draft is
// never re-entered; a new checkout starts a fresh draft.
func (s Step) IsTerminal() bool {
	return s == StepConfirmed
}

func (s Step) String() string {
	return string(s)
}

// PaymentMethod is one of the supported manual wallet channels
type PaymentMethod string

const (
	PaymentMethodUnset  PaymentMethod = ""
	PaymentMethodESewa  PaymentMethod = "esewa"
	PaymentMethodKhalti PaymentMethod = "khalti"
	PaymentMethodIMEPay PaymentMethod = "ime"
)

// Valid reports whether the method is a selectable wallet
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodESewa, PaymentMethodKhalti, PaymentMethodIMEPay:
		return true
	}
	return false
}

// ProofImage is the stored payment screenshot attached to a draft
type ProofImage struct {
	OriginalName string `json:"original_name"`
	Filename     string `json:"filename"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// Draft is one checkout attempt. It is created fresh per checkout session,
// held server-side with a short TTL, and discarded on submission or
// abandonment. Version increments on every save and guards against a late
// submission result landing on a draft that was replaced or discarded.
type Draft struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    uint      `json:"user_id"`
	Version   uint64    `json:"version"`
	Step      Step      `json:"step"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Items is a snapshot of the cart at checkout start, not a live view
	Items []cart.LineItem `json:"items"`

	ContactEmail   string        `json:"contact_email,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	TransactionRef string        `json:"transaction_ref"`
	Proof          *ProofImage   `json:"proof,omitempty"`

	// Submitting blocks a second submit while one is in flight
	Submitting bool `json:"submitting"`

	// OrderNumber is set once the flow reaches Confirmed
	OrderNumber string `json:"order_number,omitempty"`
}

// TotalItems returns the snapshot's total quantity
func (d *Draft) TotalItems() int {
	total := 0
	for _, item := range d.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the snapshot's total in whole rupees
func (d *Draft) TotalPrice() int64 {
	var total int64
	for _, item := range d.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}
