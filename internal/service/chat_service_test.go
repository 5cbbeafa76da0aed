package service

import (
	"context"
	"errors"
	"testing"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/dto"
	"unit-chat-be/internal/entity"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/internal/repository/implementation"
	"unit-chat-be/internal/repository/memory"
	"unit-chat-be/pkg/chatbot"
	"unit-chat-be/pkg/prompt"
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

type fakePublisher struct {
	published [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

type fakeGateway struct {
	reply string
	err   error

	textCalls   int
	imageCalls  int
	lastHistory []prompt.Turn
	lastText    string
	lastImage   string
	lastKey     string
}

func (g *fakeGateway) CompleteText(_ context.Context, history []prompt.Turn, newText string, _ chatbot.GenerationConfig, customApiKey string) (string, error) {
	g.textCalls++
	g.lastHistory = history
	g.lastText = newText
	g.lastKey = customApiKey
	return g.reply, g.err
}

func (g *fakeGateway) CompleteWithImage(_ context.Context, text string, imageDataURI string, customApiKey string) (string, error) {
	g.imageCalls++
	g.lastText = text
	g.lastImage = imageDataURI
	g.lastKey = customApiKey
	return g.reply, g.err
}

func (g *fakeGateway) Translate(_ context.Context, _ string, _ string) (string, error) {
	return g.reply, g.err
}

func (g *fakeGateway) Transcribe(_ context.Context, _ string, _ string) (string, error) {
	return g.reply, g.err
}

type testHarness struct {
	service   IChatService
	sessions  contract.SessionRepository
	runtime   *memory.RuntimeRepository
	gateway   *fakeGateway
	publisher *fakePublisher
}

func newTestHarness() *testHarness {
	blobStore := store.NewMemoryStore()
	sessions := implementation.NewSessionRepository(blobStore, nopLogger{})
	settings := implementation.NewSettingsStore(blobStore, nopLogger{})
	runtime := memory.NewRuntimeRepository()
	gateway := &fakeGateway{reply: "respuesta"}
	publisher := &fakePublisher{}

	return &testHarness{
		service:   NewChatService(sessions, settings, runtime, gateway, publisher, nopLogger{}),
		sessions:  sessions,
		runtime:   runtime,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (h *testHarness) newSession(t *testing.T) string {
	t.Helper()
	res, err := h.service.NewSession(context.Background())
	require.NoError(t, err)
	return res.Id
}

func TestSendAppendsAndPersists(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	res, err := h.service.Send(ctx, id, &dto.SendMessageRequest{Content: "hola como estas hoy amigo"})
	require.NoError(t, err)
	require.NotNil(t, res.Sent)
	require.NotNil(t, res.Reply)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Sent.Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.Reply.Role)
	assert.Equal(t, "respuesta", res.Reply.Content)

	persisted, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, persisted.Messages, 2)
	assert.Equal(t, "hola como estas hoy amigo", persisted.Messages[0].Content)
	assert.Equal(t, "respuesta", persisted.Messages[1].Content)
	require.NotNil(t, persisted.Settings)

	assert.Len(t, h.publisher.published, 1)
}

func TestSendEchoesNewUserTurnInHistory(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	_, err := h.service.Send(ctx, id, &dto.SendMessageRequest{Content: "hola"})
	require.NoError(t, err)

	// The request carries the new line both as the final history turn and as
	// the current input, matching the historical client wire behavior.
	require.Equal(t, 1, h.gateway.textCalls)
	require.NotEmpty(t, h.gateway.lastHistory)
	last := h.gateway.lastHistory[len(h.gateway.lastHistory)-1]
	assert.Equal(t, prompt.Turn{Role: constant.TurnRoleUser, Text: "hola"}, last)
	assert.Equal(t, "hola", h.gateway.lastText)
}

func TestSendWithImageSkipsHistory(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	_, err := h.service.Send(ctx, id, &dto.SendMessageRequest{
		Content: "analiza esta imagen",
		Image:   "data:image/jpeg;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, h.gateway.imageCalls)
	assert.Equal(t, 0, h.gateway.textCalls)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", h.gateway.lastImage)

	persisted, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, persisted.Messages, 2)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", persisted.Messages[0].Image)
	assert.Empty(t, persisted.Messages[1].Image)
}

func TestSendRejectsEmptyContent(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	_, err := h.service.Send(ctx, id, &dto.SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, h.gateway.textCalls)

	history, err := h.service.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSendFailureKeepsUserMessageUnpersisted(t *testing.T) {
	h := newTestHarness()
	h.gateway.err = &chatbot.UpstreamError{Details: "backend down"}
	ctx := context.Background()
	id := h.newSession(t)

	_, err := h.service.Send(ctx, id, &dto.SendMessageRequest{Content: "hola"})
	require.Error(t, err)

	var upstream *chatbot.UpstreamError
	assert.ErrorAs(t, err, &upstream)

	// The user line stays visible in the live sequence.
	history, err := h.service.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hola", history[0].Content)

	// But nothing was persisted.
	persisted, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, persisted.Messages)
	assert.Empty(t, h.publisher.published)
}

func TestSendWhileSendingIsRejected(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	require.True(t, h.runtime.TryBeginSending(id))
	defer h.runtime.EndSending(id)

	_, err := h.service.Send(ctx, id, &dto.SendMessageRequest{Content: "hola"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, h.gateway.textCalls)

	history, err := h.service.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSendUnknownSession(t *testing.T) {
	h := newTestHarness()

	_, err := h.service.Send(context.Background(), "nope", &dto.SendMessageRequest{Content: "hola"})
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func fiveMessages() []entity.Message {
	return []entity.Message{
		{Id: "m0", Role: constant.ChatMessageRoleUser, Content: "pregunta uno", Timestamp: 1},
		{Id: "m1", Role: constant.ChatMessageRoleAssistant, Content: "respuesta uno", Timestamp: 2},
		{Id: "m2", Role: constant.ChatMessageRoleUser, Content: "pregunta dos", Timestamp: 3},
		{Id: "m3", Role: constant.ChatMessageRoleAssistant, Content: "respuesta dos", Timestamp: 4},
		{Id: "m4", Role: constant.ChatMessageRoleUser, Content: "pregunta tres", Timestamp: 5},
	}
}

func TestRegenerateTruncatesAndAppends(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)
	require.NoError(t, h.sessions.Save(ctx, id, fiveMessages(), nil))

	res, err := h.service.Regenerate(ctx, id, 3)
	require.NoError(t, err)
	require.NotNil(t, res.Reply)

	// The prompt is the content of the message originally at the index, even
	// though that message is an assistant reply here.
	assert.Equal(t, "respuesta dos", h.gateway.lastText)

	persisted, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, persisted.Messages, 4)
	assert.Equal(t, "m2", persisted.Messages[2].Id)
	assert.Equal(t, "respuesta", persisted.Messages[3].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, persisted.Messages[3].Role)
}

func TestRegenerateFailureLeavesTruncationProvisional(t *testing.T) {
	h := newTestHarness()
	h.gateway.err = errors.New("boom")
	ctx := context.Background()
	id := h.newSession(t)
	require.NoError(t, h.sessions.Save(ctx, id, fiveMessages(), nil))

	_, err := h.service.Regenerate(ctx, id, 3)
	require.Error(t, err)

	// The live sequence is the truncated one...
	history, err := h.service.History(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	// ...but the persisted session still holds all five messages, so a reload
	// restores the pre-truncation state.
	persisted, err := h.sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, persisted.Messages, 5)
}

func TestRegenerateInvalidIndex(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)
	require.NoError(t, h.sessions.Save(ctx, id, fiveMessages(), nil))

	_, err := h.service.Regenerate(ctx, id, 5)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = h.service.Regenerate(ctx, id, -1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRegenerateWhileSendingIsRejected(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)
	require.NoError(t, h.sessions.Save(ctx, id, fiveMessages(), nil))

	require.True(t, h.runtime.TryBeginSending(id))
	defer h.runtime.EndSending(id)

	_, err := h.service.Regenerate(ctx, id, 3)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestDeleteActiveSessionSelectsAnother(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	first := h.newSession(t)
	second := h.newSession(t) // active after creation

	res, err := h.service.Delete(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, first, res.Active)

	_, err = h.sessions.Get(ctx, second)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestDeleteLastSessionCreatesFreshOne(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()
	id := h.newSession(t)

	res, err := h.service.Delete(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Active)
	assert.NotEqual(t, id, res.Active)

	sessions, err := h.service.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, res.Active, sessions[0].Id)
}

func TestActiveSessionImplicitCreate(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	active, err := h.service.ActiveSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, active)

	// A second call keeps returning the same session.
	again, err := h.service.ActiveSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, active, again)
}

func TestCompleteStatelessUsesRequestSettings(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	customSettings := entity.DefaultSettings()
	customSettings.CustomApiKey = "user-key"

	response, err := h.service.Complete(ctx, &dto.ChatRequest{
		Content:  "hola",
		Settings: &customSettings,
		History: []dto.TurnDTO{
			{Role: constant.TurnRoleUser, Text: "antes"},
			{Role: constant.TurnRoleModel, Text: "claro"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "respuesta", response)

	assert.Equal(t, "user-key", h.gateway.lastKey)
	require.Len(t, h.gateway.lastHistory, 2)
	assert.Equal(t, "antes", h.gateway.lastHistory[0].Text)
}

func TestCompleteRejectsEmptyBody(t *testing.T) {
	h := newTestHarness()

	_, err := h.service.Complete(context.Background(), &dto.ChatRequest{})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}
