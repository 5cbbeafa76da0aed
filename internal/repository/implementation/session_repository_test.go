package implementation

import (
	"context"
	"testing"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/entity"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestRepo() contract.SessionRepository {
	return NewSessionRepository(store.NewMemoryStore(), nopLogger{})
}

func TestGenerateTitle(t *testing.T) {
	assert.Equal(t, "hola como estas hoy...", entity.GenerateTitle("hola como estas hoy amigo"))
	assert.Equal(t, "hola...", entity.GenerateTitle("hola"))
	assert.Equal(t, "...", entity.GenerateTitle(""))
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Id)
	assert.Equal(t, constant.PlaceholderSessionTitle, session.Title)

	got, err := repo.Get(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, got.Id)
	assert.Empty(t, got.Messages)
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo()

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)

	messages := []entity.Message{
		{Id: "m1", Role: constant.ChatMessageRoleUser, Content: "hola como estas hoy amigo", Timestamp: 1},
		{Id: "m2", Role: constant.ChatMessageRoleAssistant, Content: "bien", Timestamp: 2},
	}
	snapshot := entity.DefaultSettings()
	require.NoError(t, repo.Save(ctx, session.Id, messages, &snapshot))

	got, err := repo.Get(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, messages, got.Messages)
	require.NotNil(t, got.Settings)
	assert.Equal(t, snapshot, *got.Settings)
}

func TestSaveUpsertsUnknownIdWithDerivedTitle(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	messages := []entity.Message{
		{Id: "m1", Role: constant.ChatMessageRoleUser, Content: "hola como estas hoy amigo"},
	}
	require.NoError(t, repo.Save(ctx, "fresh-id", messages, nil))

	got, err := repo.Get(ctx, "fresh-id")
	require.NoError(t, err)
	assert.Equal(t, "hola como estas hoy...", got.Title)
}

func TestSavePreservesListOrder(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx)
	require.NoError(t, err)
	second, err := repo.Create(ctx)
	require.NoError(t, err)

	// Saving the first session again must not move it.
	require.NoError(t, repo.Save(ctx, first.Id, []entity.Message{}, nil))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.Id, sessions[0].Id)
	assert.Equal(t, second.Id, sessions[1].Id)
}

func TestRename(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Rename(ctx, session.Id, "mi chat"))

	got, err := repo.Get(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "mi chat", got.Title)

	assert.ErrorIs(t, repo.Rename(ctx, "nope", "x"), contract.ErrSessionNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := newTestRepo()
	ctx := context.Background()

	session, err := repo.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, session.Id))
	require.NoError(t, repo.Delete(ctx, session.Id))
	require.NoError(t, repo.Delete(ctx, "never-existed"))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCorruptBlobIsTreatedAsEmpty(t *testing.T) {
	blobStore := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, blobStore.Set(ctx, constant.SessionsStorageKey, []byte("{definitely not json")))

	repo := NewSessionRepository(blobStore, nopLogger{})

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// The store stays usable after recovery.
	session, err := repo.Create(ctx)
	require.NoError(t, err)
	_, err = repo.Get(ctx, session.Id)
	assert.NoError(t, err)
}
