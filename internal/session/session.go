// Package session keeps the per-user dialogue state between messages.
package session

import (
	"context"

	"vocabbot/internal/domain"
)

// Store holds each user's current state tag and flow payload.
// Implementations must be safe for concurrent use by different users.
type Store interface {
	State(ctx context.Context, userID int64) (domain.StateTag, error)
	SetState(ctx context.Context, userID int64, state domain.StateTag) error
	Payload(ctx context.Context, userID int64) (domain.Payload, error)
	MergePayload(ctx context.Context, userID int64, part domain.Payload) error
	// Clear resets the user to idle and drops the payload. It succeeds
	// when nothing was stored.
	Clear(ctx context.Context, userID int64) error
}

// Transition merges part into the payload and then moves to state
func Transition(ctx context.Context, s Store, userID int64, state domain.StateTag, part domain.Payload) error {
	if err := s.MergePayload(ctx, userID, part); err != nil {
		return err
	}
	return s.SetState(ctx, userID, state)
}
