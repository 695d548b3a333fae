// internal/domain/cart/entity.go
package cart

import "time"

// ItemKind distinguishes game top-up packages from subscription plans
type ItemKind string

const (
	ItemKindGame         ItemKind = "game"
	ItemKindSubscription ItemKind = "subscription"
)

// MaxLineQuantity caps a single line. Top-ups are digital goods with no
// stock tracking, so the cap is a flat policy rather than catalog-driven.
const MaxLineQuantity = 99

// LineItem is one purchasable unit in the cart. ID identifies the package
// or plan, not a cart row: adding the same ID again bumps the quantity.
type LineItem struct {
	ID           string   `json:"id"`
	Kind         ItemKind `json:"kind"`
	ProductID    string   `json:"product_id"`
	PackageID    string   `json:"package_id"`
	Name         string   `json:"name"`
	PackageLabel string   `json:"package_label"`
	UnitPrice    int64    `json:"unit_price"` // whole Nepali rupees
	Quantity     int      `json:"quantity"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// Candidate is a LineItem without a quantity, as product pages submit it
type Candidate struct {
	ID           string   `json:"id" binding:"required"`
	Kind         ItemKind `json:"kind" binding:"required,oneof=game subscription"`
	ProductID    string   `json:"product_id" binding:"required"`
	PackageID    string   `json:"package_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	PackageLabel string   `json:"package_label"`
	UnitPrice    int64    `json:"unit_price" binding:"min=0"`
	ImageURL     string   `json:"image_url"`
}

// State is the cart for one session. Mutations are pure in-memory
// operations; persistence is the adapter's concern (see Store). Items keep
// insertion order, which is the display order.
type State struct {
	Items     []LineItem `json:"items"`
	PanelOpen bool       `json:"panel_open"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewState returns an empty cart
func NewState() *State {
	return &State{Items: []LineItem{}}
}

// Clone returns a deep copy of the state. Callers that share a loaded
// state must each mutate their own copy.
func (s *State) Clone() *State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return &State{
		Items:     items,
		PanelOpen: s.PanelOpen,
		UpdatedAt: s.UpdatedAt,
	}
}

// AddItem appends a new line with quantity 1, or bumps the quantity of an
// existing line with the same ID. Later adds never overwrite price or name:
// cart contents stay stable once added even if the catalog changes.
func (s *State) AddItem(c Candidate) {
	for i := range s.Items {
		if s.Items[i].ID == c.ID {
			if s.Items[i].Quantity < MaxLineQuantity {
				s.Items[i].Quantity++
			}
			s.touch()
			return
		}
	}

	s.Items = append(s.Items, LineItem{
		ID:           c.ID,
		Kind:         c.Kind,
		ProductID:    c.ProductID,
		PackageID:    c.PackageID,
		Name:         c.Name,
		PackageLabel: c.PackageLabel,
		UnitPrice:    c.UnitPrice,
		Quantity:     1,
		ImageURL:     c.ImageURL,
	})
	s.touch()
}

// RemoveItem deletes the line with the given ID. Absent IDs are a no-op.
func (s *State) RemoveItem(id string) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.touch()
			return
		}
	}
}

// UpdateQuantity sets the line quantity exactly. A quantity of zero or less
// removes the line, so the cart never holds a non-positive quantity.
func (s *State) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}
	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items[i].Quantity = quantity
			s.touch()
			return
		}
	}
}

// Clear empties the cart unconditionally
func (s *State) Clear() {
	s.Items = []LineItem{}
	s.touch()
}

// SetPanelOpen toggles the sidebar visibility flag. UI state only.
func (s *State) SetPanelOpen(open bool) {
	s.PanelOpen = open
	s.touch()
}

// TotalItems returns the sum of all line quantities
func (s *State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the cart total in whole rupees
func (s *State) TotalPrice() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (s *State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s *State) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Totals is the derived summary returned alongside cart responses
type Totals struct {
	LineCount  int   `json:"line_count"`
	TotalItems int   `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
}

// Summarize computes the derived totals for the current state
func (s *State) Summarize() Totals {
	return Totals{
		LineCount:  len(s.Items),
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice(),
	}
}
