package contract

import (
	"context"
	"errors"

	"unit-chat-be/internal/entity"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository is durable storage of chat sessions. A corrupt or
// unparsable underlying store is treated as an empty collection, never as a
// fatal error; the store is a cache of conversational state, not a
// transactional record.
type SessionRepository interface {
	// Create persists an empty session with a placeholder title.
	Create(ctx context.Context) (*entity.Session, error)
	// Get returns ErrSessionNotFound when the id is absent.
	Get(ctx context.Context, id string) (*entity.Session, error)
	// List preserves persisted array order.
	List(ctx context.Context) ([]entity.Session, error)
	// Save upserts: an existing id has its messages and settings snapshot
	// replaced; an unknown id is appended with a title derived from the first
	// message.
	Save(ctx context.Context, id string, messages []entity.Message, snapshot *entity.Settings) error
	Rename(ctx context.Context, id string, title string) error
	// Delete is idempotent; deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}
