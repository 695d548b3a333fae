// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootportal/lootportal-api/internal/domain/cart"
)

type mockDraftStore struct {
	mu      sync.Mutex
	drafts  map[string]Draft
	locks   map[string]bool
	saveErr error
	onLoad  func() // runs before each Load, outside the mutex
}

func newMockDraftStore() *mockDraftStore {
	return &mockDraftStore{
		drafts: make(map[string]Draft),
		locks:  make(map[string]bool),
	}
}

func (m *mockDraftStore) Load(ctx context.Context, draftID string) (*Draft, error) {
	m.mu.Lock()
	hook := m.onLoad
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	copied := d
	return &copied, nil
}

func (m *mockDraftStore) Save(ctx context.Context, draft *Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.drafts[draft.ID] = *draft
	return nil
}

func (m *mockDraftStore) Delete(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftID)
	return nil
}

func (m *mockDraftStore) ClaimSubmission(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[draftID] {
		return false, nil
	}
	m.locks[draftID] = true
	return true, nil
}

func (m *mockDraftStore) ReleaseSubmission(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, draftID)
	return nil
}

type mockCartSource struct {
	mu          sync.Mutex
	items       []cart.LineItem
	cleared     int
	snapshotErr error
}

func (m *mockCartSource) Snapshot(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotErr != nil {
		return nil, m.snapshotErr
	}
	items := make([]cart.LineItem, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (m *mockCartSource) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.items = nil
	return nil
}

type mockOrderPlacer struct {
	mu          sync.Mutex
	orderNumber string
	err         error
	calls       int
	requests    []PlaceOrderRequest
	inFlight    func() // runs while the order call is pending
}

func (m *mockOrderPlacer) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	hook := m.inFlight
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return m.orderNumber, m.err
}

type mockProofRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (m *mockProofRemover) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.removed = append(m.removed, path)
	return nil
}

type checkoutFixture struct {
	service *Service
	drafts  *mockDraftStore
	carts   *mockCartSource
	orders  *mockOrderPlacer
	proofs  *mockProofRemover
}

func newCheckoutFixture() *checkoutFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f := &checkoutFixture{
		drafts: newMockDraftStore(),
		carts: &mockCartSource{items: []cart.LineItem{
			{ID: "codm-400", Kind: cart.ItemKindGame, Name: "Call of Duty Mobile", UnitPrice: 500, Quantity: 1},
		}},
		orders: &mockOrderPlacer{orderNumber: "LP-20260901-00001"},
		proofs: &mockProofRemover{},
	}
	f.service = NewService(f.drafts, f.carts, f.orders, f.proofs, 2*time.Second, logger)
	return f
}

// reviewDraft drives a fresh draft through the flow until it sits in Review
func (f *checkoutFixture) reviewDraft(t *testing.T) *Draft {
	t.Helper()
	ctx := context.Background()

	draft, err := f.service.Start(ctx, "session-1", 0, nil)
	require.NoError(t, err)

	draft, err = f.service.SetContact(ctx, draft.ID, "buyer@example.com", "deliver fast")
	require.NoError(t, err)
	require.Equal(t, StepPayment, draft.Step)

	draft, err = f.service.SetPayment(ctx, draft.ID, PaymentMethodESewa, "TXN-98765")
	require.NoError(t, err)

	draft, err = f.service.AttachProof(ctx, draft.ID, ProofImage{
		Filename: "a.png", Path: "uploads/a.png", URL: "/uploads/a.png",
	})
	require.NoError(t, err)

	draft, err = f.service.Next(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, StepReview, draft.Step)
	return draft
}

func TestService_StartFromCart(t *testing.T) {
	f := newCheckoutFixture()

	draft, err := f.service.Start(context.Background(), "session-1", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, StepContact, draft.Step)
	assert.Len(t, draft.Items, 1)
	assert.Equal(t, "codm-400", draft.Items[0].ID)
	assert.NotEmpty(t, draft.ID)
}

func TestService_StartExplicitItemsWinOverCart(t *testing.T) {
	f := newCheckoutFixture()

	explicit := []cart.LineItem{
		{ID: "netflix-monthly", Kind: cart.ItemKindSubscription, Name: "Netflix", UnitPrice: 1100, Quantity: 1},
	}
	draft, err := f.service.Start(context.Background(), "session-1", 0, explicit)
	require.NoError(t, err)

	require.Len(t, draft.Items, 1)
	assert.Equal(t, "netflix-monthly", draft.Items[0].ID)
}

func TestService_StartEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.carts.items = nil

	_, err := f.service.Start(context.Background(), "session-1", 0, nil)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestService_SetPaymentRejectsUnknownMethod(t *testing.T) {
	f := newCheckoutFixture()
	draft, err := f.service.Start(context.Background(), "session-1", 0, nil)
	require.NoError(t, err)

	_, err = f.service.SetPayment(context.Background(), draft.ID, PaymentMethod("paypal"), "TXN-1")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestService_AttachProofReplacesPreviousFile(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()
	draft, err := f.service.Start(ctx, "session-1", 0, nil)
	require.NoError(t, err)

	_, err = f.service.AttachProof(ctx, draft.ID, ProofImage{Filename: "first.png", Path: "uploads/first.png"})
	require.NoError(t, err)

	draft, err = f.service.AttachProof(ctx, draft.ID, ProofImage{Filename: "second.png", Path: "uploads/second.png"})
	require.NoError(t, err)

	assert.Equal(t, "second.png", draft.Proof.Filename)
	assert.Equal(t, []string{"uploads/first.png"}, f.proofs.removed)
}

func TestService_SubmitSuccess(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)

	confirmed, err := f.service.Submit(context.Background(), draft.ID)
	require.NoError(t, err)

	assert.Equal(t, StepConfirmed, confirmed.Step)
	assert.Equal(t, "LP-20260901-00001", confirmed.OrderNumber)
	assert.False(t, confirmed.Submitting)
	assert.Equal(t, 1, f.carts.cleared)

	// Only the order number survives on the confirmed draft
	assert.Empty(t, confirmed.Items)
	assert.Empty(t, confirmed.TransactionRef)
	assert.Nil(t, confirmed.Proof)

	require.Len(t, f.orders.requests, 1)
	req := f.orders.requests[0]
	assert.Equal(t, "esewa", req.PaymentMethod)
	assert.Equal(t, "TXN-98765", req.TransactionRef)
	assert.Equal(t, "/uploads/a.png", req.ProofURL)
	assert.Len(t, req.Items, 1)
}

func TestService_SubmitFailureKeepsCartAndAllowsRetry(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)
	f.orders.err = errors.New("orders backend unavailable")

	got, err := f.service.Submit(context.Background(), draft.ID)
	require.ErrorIs(t, err, ErrSubmissionFailed)

	assert.Equal(t, StepReview, got.Step)
	assert.False(t, got.Submitting)
	assert.NotEmpty(t, got.Items)
	assert.Equal(t, 0, f.carts.cleared)

	f.orders.err = nil
	got, err = f.service.Submit(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StepConfirmed, got.Step)
	assert.Equal(t, 2, f.orders.calls)
}

func TestService_SubmitOnlyFromReview(t *testing.T) {
	f := newCheckoutFixture()
	draft, err := f.service.Start(context.Background(), "session-1", 0, nil)
	require.NoError(t, err)

	_, err = f.service.Submit(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, f.orders.calls)
}

func TestService_SubmitRejectedWhileInFlight(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)
	ctx := context.Background()

	claimed, err := f.drafts.ClaimSubmission(ctx, draft.ID, time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = f.service.Submit(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, 0, f.orders.calls)
}

func TestService_ConcurrentSubmitsCreateOneOrder(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)

	// Hold the first two loads on a barrier so both submitters see the
	// Review-step draft before either claims the submit lock
	var arrived int32
	release := make(chan struct{})
	f.drafts.onLoad = func() {
		if n := atomic.AddInt32(&arrived, 1); n <= 2 {
			if n == 2 {
				close(release)
			}
			<-release
		}
	}

	var wg sync.WaitGroup
	results := make([]*Draft, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.service.Submit(context.Background(), draft.ID)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, f.orders.calls, "only one order may be placed per draft")
	assert.Equal(t, 1, f.carts.cleared)

	var confirmed, rejected int
	for i := range errs {
		switch {
		case errs[i] == nil:
			confirmed++
			assert.Equal(t, StepConfirmed, results[i].Step)
		case errors.Is(errs[i], ErrSubmissionInFlight), errors.Is(errs[i], ErrFlowFinished):
			rejected++
		default:
			t.Fatalf("unexpected submit error: %v", errs[i])
		}
	}
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 1, rejected)
}

func TestService_SubmitRechecksPaymentGuard(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)

	// Something stripped the proof after the draft reached Review
	stored := f.drafts.drafts[draft.ID]
	stored.Proof = nil
	f.drafts.drafts[draft.ID] = stored

	_, err := f.service.Submit(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrProofRequired)
	assert.Equal(t, 0, f.orders.calls)
}

func TestService_SubmitDiscardsLateResultForAbandonedDraft(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)

	f.orders.inFlight = func() {
		_ = f.service.Abandon(context.Background(), draft.ID)
	}

	_, err := f.service.Submit(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrDraftDiscarded)
	assert.Equal(t, 0, f.carts.cleared)
	assert.NotContains(t, f.drafts.drafts, draft.ID)
}

func TestService_BackPreservesFields(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)
	ctx := context.Background()

	draft, err := f.service.Back(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StepPayment, draft.Step)
	assert.Equal(t, PaymentMethodESewa, draft.PaymentMethod)
	assert.Equal(t, "TXN-98765", draft.TransactionRef)
	require.NotNil(t, draft.Proof)

	draft, err = f.service.Next(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, StepReview, draft.Step)
}

func TestService_AbandonReleasesProof(t *testing.T) {
	f := newCheckoutFixture()
	draft := f.reviewDraft(t)

	err := f.service.Abandon(context.Background(), draft.ID)
	require.NoError(t, err)

	assert.Contains(t, f.proofs.removed, "uploads/a.png")
	_, err = f.service.Get(context.Background(), draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestService_AbandonMissingDraftIsNoop(t *testing.T) {
	f := newCheckoutFixture()

	err := f.service.Abandon(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, f.proofs.removed)
}
