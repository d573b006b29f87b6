// Package session maps opaque client tokens to user identities across
// requests. Only the user id is persisted per token; the full identity is
// rehydrated from the credential store on every lookup.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound reports that a token has no live mapping, either because
// it never existed or because its TTL elapsed.
var ErrSessionNotFound = errors.New("session not found")

// Store is a TTL key-value store keyed by session token. Implementations must
// provide atomic per-key operations.
type Store interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string, ttl time.Duration) error
}
