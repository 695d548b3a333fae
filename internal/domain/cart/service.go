// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Service ties the pure cart state to its persistence adapter, keyed by
// session. Mutations never fail in the domain sense: if the write-back
// fails the mutated state is still returned and the failure is logged,
// so a storage outage degrades persistence, not the cart.
type Service struct {
	store  Store
	logger *logrus.Logger
	sfg    singleflight.Group // dedupes concurrent loads of one session
}

// NewService creates a new cart service
func NewService(store Store, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Response represents a cart with its derived totals
type Response struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	PanelOpen bool       `json:"panel_open"`
	Totals    Totals     `json:"totals"`
}

// UpdateQuantityRequest represents an update-quantity request. Zero and
// negative values are accepted and remove the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// Get retrieves the cart for a session
func (s *Service) Get(ctx context.Context, sessionID string) (*Response, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(sessionID, state), nil
}

// AddItem adds a candidate to the cart: existing IDs gain quantity,
// new IDs append a line with quantity 1
func (s *Service) AddItem(ctx context.Context, sessionID string, candidate Candidate) (*Response, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.AddItem(candidate)
	s.persist(ctx, sessionID, state)

	return s.respond(sessionID, state), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Response, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.UpdateQuantity(itemID, quantity)
	s.persist(ctx, sessionID, state)

	return s.respond(sessionID, state), nil
}

// RemoveItem deletes a line from the cart; absent IDs are a no-op
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) (*Response, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.RemoveItem(itemID)
	s.persist(ctx, sessionID, state)

	return s.respond(sessionID, state), nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to delete persisted cart")
	}
	return nil
}

// Count returns the total item quantity for the session's cart
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return state.TotalItems(), nil
}

// SetPanelOpen persists the sidebar visibility flag
func (s *Service) SetPanelOpen(ctx context.Context, sessionID string, open bool) (*Response, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.SetPanelOpen(open)
	s.persist(ctx, sessionID, state)

	return s.respond(sessionID, state), nil
}

// Snapshot returns a copy of the cart lines, detached from the stored
// state, for checkout to consume
func (s *Service) Snapshot(ctx context.Context, sessionID string) ([]LineItem, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, len(state.Items))
	copy(items, state.Items)
	return items, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*State, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart access")
	}

	// The deduped load runs once for all waiters, so it must not inherit
	// the first caller's cancellation, and every caller gets its own copy
	// of the result to mutate.
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		return s.store.Load(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*State).Clone(), nil
}

// persist writes the mutated state back. Failures are logged and swallowed:
// the caller's response still reflects the mutation.
func (s *Service) persist(ctx context.Context, sessionID string, state *State) {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to persist cart, in-memory state returned anyway")
	}
}

func (s *Service) respond(sessionID string, state *State) *Response {
	return &Response{
		SessionID: sessionID,
		Items:     state.Items,
		PanelOpen: state.PanelOpen,
		Totals:    state.Summarize(),
	}
}
