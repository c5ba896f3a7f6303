package model

import (
	"context"
)

// ThreadRepository persists one ConversationState per thread id. The
// repository owns the state lifecycle between turns; callers never destroy
// state explicitly except through Delete (thread reset).
type ThreadRepository interface {
	// Load retrieves the state for a thread. A missing thread yields
	// (nil, nil) so callers can start fresh without error plumbing.
	Load(ctx context.Context, threadID string) (*ConversationState, error)

	// Save stores the full state, replacing any previous checkpoint.
	Save(ctx context.Context, state *ConversationState) error

	// Delete discards the thread's state entirely.
	Delete(ctx context.Context, threadID string) error
}
