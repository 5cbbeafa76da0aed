package implementation

import (
	"context"
	"encoding/json"
	"time"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/entity"
	"unit-chat-be/internal/pkg/logger"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/pkg/store"

	"github.com/google/uuid"
)

type SessionRepositoryImpl struct {
	store store.BlobStore
	log   logger.ILogger
}

func NewSessionRepository(blobStore store.BlobStore, log logger.ILogger) contract.SessionRepository {
	return &SessionRepositoryImpl{
		store: blobStore,
		log:   log,
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context) (*entity.Session, error) {
	sessions := r.readAll(ctx)

	session := entity.Session{
		Id:        uuid.New().String(),
		Title:     constant.PlaceholderSessionTitle,
		Messages:  []entity.Message{},
		CreatedAt: time.Now().UnixMilli(),
	}
	sessions = append(sessions, session)

	if err := r.writeAll(ctx, sessions); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) Get(ctx context.Context, id string) (*entity.Session, error) {
	for _, session := range r.readAll(ctx) {
		if session.Id == id {
			return &session, nil
		}
	}
	return nil, contract.ErrSessionNotFound
}

func (r *SessionRepositoryImpl) List(ctx context.Context) ([]entity.Session, error) {
	return r.readAll(ctx), nil
}

func (r *SessionRepositoryImpl) Save(ctx context.Context, id string, messages []entity.Message, snapshot *entity.Settings) error {
	sessions := r.readAll(ctx)

	for i := range sessions {
		if sessions[i].Id == id {
			sessions[i].Messages = messages
			sessions[i].Settings = snapshot
			return r.writeAll(ctx, sessions)
		}
	}

	firstMessage := constant.PlaceholderSessionTitle
	if len(messages) > 0 {
		firstMessage = messages[0].Content
	}
	sessions = append(sessions, entity.Session{
		Id:        id,
		Title:     entity.GenerateTitle(firstMessage),
		Messages:  messages,
		Settings:  snapshot,
		CreatedAt: time.Now().UnixMilli(),
	})
	return r.writeAll(ctx, sessions)
}

func (r *SessionRepositoryImpl) Rename(ctx context.Context, id string, title string) error {
	sessions := r.readAll(ctx)
	for i := range sessions {
		if sessions[i].Id == id {
			sessions[i].Title = title
			return r.writeAll(ctx, sessions)
		}
	}
	return contract.ErrSessionNotFound
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	sessions := r.readAll(ctx)

	kept := make([]entity.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Id != id {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(sessions) {
		// Absent id: deletion is idempotent.
		return nil
	}
	return r.writeAll(ctx, kept)
}

// readAll fails soft: a missing, unreadable or unparsable blob yields an empty
// collection.
func (r *SessionRepositoryImpl) readAll(ctx context.Context) []entity.Session {
	blob, err := r.store.Get(ctx, constant.SessionsStorageKey)
	if err != nil {
		r.log.Warn("session_repository", "failed to read sessions blob, treating store as empty", map[string]interface{}{
			"error": err.Error(),
		})
		return []entity.Session{}
	}
	if blob == nil {
		return []entity.Session{}
	}

	var sessions []entity.Session
	if err := json.Unmarshal(blob, &sessions); err != nil {
		r.log.Warn("session_repository", "failed to parse sessions blob, treating store as empty", map[string]interface{}{
			"error": err.Error(),
		})
		return []entity.Session{}
	}
	return sessions
}

func (r *SessionRepositoryImpl) writeAll(ctx context.Context, sessions []entity.Session) error {
	blob, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, constant.SessionsStorageKey, blob)
}
