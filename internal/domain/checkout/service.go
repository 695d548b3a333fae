// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lootportal/lootportal-api/internal/domain/cart"
)

var (
	// ErrNoItems means the draft resolved to an empty item list; the
	// caller should send the user back to the catalog
	ErrNoItems = errors.New("no items to check out")
	// ErrSubmissionInFlight blocks a second submit while one is pending
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	// ErrSubmissionFailed wraps a failed order creation; the draft stays
	// in Review and the user can retry
	ErrSubmissionFailed = errors.New("order submission failed")
	// ErrDraftDiscarded means the draft was abandoned or replaced while a
	// submission was in flight; the late result is not applied
	ErrDraftDiscarded = errors.New("checkout draft was discarded")
	// ErrUnknownPaymentMethod rejects wallets outside the supported set
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// CartSource is the cart store as checkout sees it: a snapshot at flow
// start and a clear after a successful order
type CartSource interface {
	Snapshot(ctx context.Context, sessionID string) ([]cart.LineItem, error)
	Clear(ctx context.Context, sessionID string) error
}

// PlaceOrderRequest is the order-creation request built from a full draft
type PlaceOrderRequest struct {
	UserID         uint
	ContactEmail   string
	Notes          string
	PaymentMethod  string
	TransactionRef string
	ProofURL       string
	Items          []cart.LineItem
}

// OrderPlacer is the orders collaborator's create operation
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (orderNumber string, err error)
}

// ProofRemover releases a stored proof image when it is replaced or the
// draft is abandoned
type ProofRemover interface {
	Remove(path string) error
}

// Service drives checkout drafts through the step flow and hands finished
// drafts to the orders collaborator
type Service struct {
	drafts        DraftStore
	carts         CartSource
	orders        OrderPlacer
	proofs        ProofRemover
	submitTimeout time.Duration
	logger        *logrus.Logger
}

// NewService creates a new checkout service
func NewService(drafts DraftStore, carts CartSource, orders OrderPlacer, proofs ProofRemover, submitTimeout time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		drafts:        drafts,
		carts:         carts,
		orders:        orders,
		proofs:        proofs,
		submitTimeout: submitTimeout,
		logger:        logger,
	}
}

// Start opens a fresh draft for one checkout attempt. Explicit items win;
// otherwise the live cart is snapshotted. An empty resolution is ErrNoItems
// so the handler can redirect to the catalog.
func (s *Service) Start(ctx context.Context, sessionID string, userID uint, explicit []cart.LineItem) (*Draft, error) {
	items := make([]cart.LineItem, len(explicit))
	copy(items, explicit)

	if len(items) == 0 {
		snapshot, err := s.carts.Snapshot(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot cart: %w", err)
		}
		items = snapshot
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	now := time.Now().UTC()
	draft := &Draft{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		UserID:    userID,
		Step:      StepContact,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Get retrieves a draft by id
func (s *Service) Get(ctx context.Context, draftID string) (*Draft, error) {
	return s.drafts.Load(ctx, draftID)
}

// SetContact stores the optional contact fields and, from the Contact
// step, advances to Payment
func (s *Service) SetContact(ctx context.Context, draftID, email, notes string) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Step.IsTerminal() {
		return draft, ErrFlowFinished
	}

	draft.ContactEmail = email
	draft.Notes = notes

	if draft.Step == StepContact {
		next, err := Transition(*draft, EventNext)
		if err != nil {
			return draft, err
		}
		draft.Step = next
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetPayment records the selected wallet and transaction reference.
// Selecting a wallet replaces any previous selection.
func (s *Service) SetPayment(ctx context.Context, draftID string, method PaymentMethod, transactionRef string) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Step.IsTerminal() {
		return draft, ErrFlowFinished
	}
	if method != PaymentMethodUnset && !method.Valid() {
		return draft, ErrUnknownPaymentMethod
	}

	draft.PaymentMethod = method
	draft.TransactionRef = transactionRef

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AttachProof attaches the payment screenshot, releasing any previously
// stored file
func (s *Service) AttachProof(ctx context.Context, draftID string, proof ProofImage) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Step.IsTerminal() {
		return draft, ErrFlowFinished
	}

	if draft.Proof != nil {
		s.removeProofFile(draft.Proof)
	}
	draft.Proof = &proof

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Next advances the flow one step, applying the step's guard
func (s *Service) Next(ctx context.Context, draftID string) (*Draft, error) {
	return s.apply(ctx, draftID, EventNext)
}

// Back returns to the preceding step, preserving every entered field
func (s *Service) Back(ctx context.Context, draftID string) (*Draft, error) {
	return s.apply(ctx, draftID, EventBack)
}

// Submit sends the draft to the orders collaborator. On success the cart
// is cleared, the draft keeps only the order number and the flow reaches
// Confirmed. On failure the draft stays in Review for a retry. Only one
// submission may be in flight per draft.
func (s *Service) Submit(ctx context.Context, draftID string) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if draft.Step.IsTerminal() {
		return draft, ErrFlowFinished
	}
	if draft.Step != StepReview {
		return draft, ErrInvalidTransition
	}

	// The submit lock is the single-submission authority: a load-check-save
	// of a flag cannot stop two concurrent submits. The lock outlives the
	// submission deadline so a crashed attempt frees itself.
	claimed, err := s.drafts.ClaimSubmission(ctx, draftID, s.submitTimeout+5*time.Second)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return draft, ErrSubmissionInFlight
	}
	defer func() {
		if err := s.drafts.ReleaseSubmission(context.WithoutCancel(ctx), draftID); err != nil {
			s.logger.WithError(err).WithField("draft_id", draftID).
				Warn("Failed to release submission lock")
		}
	}()

	// Re-load under the lock: the draft may have moved while we raced for
	// it, and the payment guard must still hold at submit time
	draft, err = s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Step.IsTerminal() {
		return draft, ErrFlowFinished
	}
	if draft.Step != StepReview {
		return draft, ErrInvalidTransition
	}
	if err := paymentGuard(*draft); err != nil {
		return draft, err
	}

	draft.Submitting = true
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	inFlightVersion := draft.Version

	proofURL := ""
	if draft.Proof != nil {
		proofURL = draft.Proof.URL
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	orderNumber, placeErr := s.orders.PlaceOrder(submitCtx, PlaceOrderRequest{
		UserID:         draft.UserID,
		ContactEmail:   draft.ContactEmail,
		Notes:          draft.Notes,
		PaymentMethod:  string(draft.PaymentMethod),
		TransactionRef: draft.TransactionRef,
		ProofURL:       proofURL,
		Items:          draft.Items,
	})

	// Stale guard: the draft may have been abandoned or replaced while the
	// call was in flight. A late result must not land on it.
	current, loadErr := s.drafts.Load(ctx, draftID)
	if loadErr != nil || current.Version != inFlightVersion {
		s.logger.WithFields(logrus.Fields{
			"draft_id":     draftID,
			"order_number": orderNumber,
		}).Warn("Discarding late submission result for stale checkout draft")
		return nil, ErrDraftDiscarded
	}

	if placeErr != nil {
		current.Submitting = false
		if err := s.save(ctx, current); err != nil {
			return nil, err
		}
		return current, fmt.Errorf("%w: %v", ErrSubmissionFailed, placeErr)
	}

	next, err := Transition(*current, EventSubmitted)
	if err != nil {
		return current, err
	}

	// Success: the cart is done and the draft keeps only what the
	// confirmation screen needs
	if err := s.carts.Clear(ctx, current.SessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", current.SessionID).
			Warn("Failed to clear cart after order submission")
	}

	current.Step = next
	current.OrderNumber = orderNumber
	current.Submitting = false
	current.Items = nil
	current.ContactEmail = ""
	current.Notes = ""
	current.PaymentMethod = PaymentMethodUnset
	current.TransactionRef = ""
	current.Proof = nil

	if err := s.save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Abandon discards a draft and releases its proof image
func (s *Service) Abandon(ctx context.Context, draftID string) error {
	draft, err := s.drafts.Load(ctx, draftID)
	if errors.Is(err, ErrDraftNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	if draft.Proof != nil {
		s.removeProofFile(draft.Proof)
	}

	return s.drafts.Delete(ctx, draftID)
}

func (s *Service) apply(ctx context.Context, draftID string, event Event) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, draftID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(*draft, event)
	if err != nil {
		return draft, err
	}

	draft.Step = next
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *Service) save(ctx context.Context, draft *Draft) error {
	draft.Version++
	draft.UpdatedAt = time.Now().UTC()
	return s.drafts.Save(ctx, draft)
}

func (s *Service) removeProofFile(proof *ProofImage) {
	if err := s.proofs.Remove(proof.Path); err != nil {
		s.logger.WithError(err).WithField("path", proof.Path).
			Warn("Failed to remove replaced proof image")
	}
}
