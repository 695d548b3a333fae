// internal/domain/checkout/store.go
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned for unknown, expired or discarded drafts
var ErrDraftNotFound = errors.New("checkout draft not found")

// DraftStore persists in-flight checkout drafts. Drafts are deliberately
// short-lived: they expire with the TTL and are deleted on submission or
// abandonment, so a stale flow never resurfaces.
type DraftStore interface {
	Load(ctx context.Context, draftID string) (*Draft, error)
	Save(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, draftID string) error
	// ClaimSubmission atomically takes the per-draft submit lock, returning
	// false when another submission already holds it. The lock expires on
	// its own after ttl so a crashed submission cannot wedge the draft.
	ClaimSubmission(ctx context.Context, draftID string, ttl time.Duration) (bool, error)
	// ReleaseSubmission drops the submit lock once the submission settled
	ReleaseSubmission(ctx context.Context, draftID string) error
}

// RedisDraftStore keeps drafts as JSON with a sliding TTL
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore creates a Redis-backed draft store
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	return &RedisDraftStore{
		client: client,
		ttl:    ttl,
	}
}

func draftKey(draftID string) string {
	return fmt.Sprintf("checkout:draft:%s", draftID)
}

func submitLockKey(draftID string) string {
	return fmt.Sprintf("checkout:draft:%s:submit", draftID)
}

// Load retrieves a draft by id
func (r *RedisDraftStore) Load(ctx context.Context, draftID string) (*Draft, error) {
	data, err := r.client.Get(ctx, draftKey(draftID)).Result()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load checkout draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode checkout draft: %w", err)
	}

	return &draft, nil
}

// Save writes the draft back and refreshes its TTL
func (r *RedisDraftStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode checkout draft: %w", err)
	}

	if err := r.client.Set(ctx, draftKey(draft.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to persist checkout draft: %w", err)
	}
	return nil
}

// Delete discards a draft
func (r *RedisDraftStore) Delete(ctx context.Context, draftID string) error {
	return r.client.Del(ctx, draftKey(draftID)).Err()
}

// ClaimSubmission takes the submit lock with SET NX; only one caller wins
func (r *RedisDraftStore) ClaimSubmission(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	claimed, err := r.client.SetNX(ctx, submitLockKey(draftID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim submission lock: %w", err)
	}
	return claimed, nil
}

// ReleaseSubmission drops the submit lock
func (r *RedisDraftStore) ReleaseSubmission(ctx context.Context, draftID string) error {
	return r.client.Del(ctx, submitLockKey(draftID)).Err()
}
