package cart

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
)

type mockStore struct {
	m       sync.Mutex
	carts   map[string]*State
	saveErr error
	loadErr error
	saves   int
}

func newMockStore() *mockStore {
	return &mockStore{carts: map[string]*State{}}
}

func (m *mockStore) Load(_ context.Context, sessionID string) (*State, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if state, ok := m.carts[sessionID]; ok {
		return state, nil
	}
	return NewState(), nil
}

func (m *mockStore) Save(_ context.Context, sessionID string, state *State) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.carts[sessionID] = state
	return nil
}

func (m *mockStore) Delete(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestServiceAddAndGet(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	resp, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.TotalItems)

	resp, err = svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Totals.TotalItems)
	assert.Equal(t, int64(1000), resp.Totals.TotalPrice)

	got, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestServiceRequiresSessionID(t *testing.T) {
	svc := NewService(newMockStore(), testLogger())

	_, err := svc.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestServicePersistenceFailureDoesNotFailMutation(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("storage quota exceeded")
	svc := NewService(store, testLogger())

	resp, err := svc.AddItem(context.Background(), "sess-1", codmCandidate())

	// The mutation still succeeds and the returned state reflects it
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.TotalItems)
}

func TestServiceUpdateQuantityRemovalPersisted(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, "sess-1", "codm-400", 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	count, err := svc.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestServiceClear(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "sess-1", netflixCandidate())
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "sess-1"))

	count, err := svc.Count(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestServiceSnapshotIsDetached(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(ctx, "sess-1")
	require.NoError(t, err)
	snapshot[0].Quantity = 50

	got, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)

	count, err := svc.Count(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// gatedStore blocks Load until released so concurrent callers pile up on
// one in-flight load.
type gatedStore struct {
	*mockStore
	gate  chan struct{}
	loads int32
}

func (g *gatedStore) Load(ctx context.Context, sessionID string) (*State, error) {
	atomic.AddInt32(&g.loads, 1)
	<-g.gate
	return g.mockStore.Load(ctx, sessionID)
}

func TestServiceConcurrentMutationsGetOwnState(t *testing.T) {
	store := &gatedStore{mockStore: newMockStore(), gate: make(chan struct{})}
	svc := NewService(store, testLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	responses := make([]*Response, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i], errs[i] = svc.AddItem(ctx, "sess-1", codmCandidate())
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// One deduped load, but each caller mutates its own copy: neither
	// response may observe the other caller's increment.
	assert.Equal(t, int32(1), atomic.LoadInt32(&store.loads))
	for _, resp := range responses {
		assert.Equal(t, 1, resp.Totals.TotalItems)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 1, resp.Items[0].Quantity)
	}
}

func TestServiceLoadSurvivesCallerCancellation(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The deduped load is detached from the first caller's context, and
	// the mock store ignores it anyway; the call must still succeed.
	resp, err := svc.AddItem(ctx, "sess-1", codmCandidate())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.TotalItems)
}
