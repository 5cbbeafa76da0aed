package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"unit-chat-be/internal/constant"
	"unit-chat-be/internal/dto"
	"unit-chat-be/internal/entity"
	"unit-chat-be/internal/pkg/logger"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/internal/repository/memory"
	"unit-chat-be/pkg/chatbot"
	"unit-chat-be/pkg/prompt"

	"github.com/google/uuid"
)

// IChatService is the conversation controller: it owns the send/regenerate
// state machine, the session lifecycle, and the stateless boundary operations.
type IChatService interface {
	NewSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	Sessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error)
	History(ctx context.Context, sessionId string) ([]entity.Message, error)
	Send(ctx context.Context, sessionId string, request *dto.SendMessageRequest) (*dto.SendChatResponse, error)
	Regenerate(ctx context.Context, sessionId string, index int) (*dto.SendChatResponse, error)
	Rename(ctx context.Context, sessionId string, title string) error
	Delete(ctx context.Context, sessionId string) (*dto.DeleteSessionResponse, error)
	ActiveSession(ctx context.Context) (string, error)

	Complete(ctx context.Context, request *dto.ChatRequest) (string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	Transcribe(ctx context.Context, audioDataURI, mimeType string) (string, error)
	Voices(ctx context.Context) []dto.VoiceDescriptor
}

type chatService struct {
	sessions  contract.SessionRepository
	settings  contract.SettingsStore
	runtime   *memory.RuntimeRepository
	gateway   chatbot.CompletionGateway
	publisher IPublisherService
	log       logger.ILogger

	activeMu sync.Mutex
	activeId string
}

func NewChatService(
	sessions contract.SessionRepository,
	settings contract.SettingsStore,
	runtime *memory.RuntimeRepository,
	gateway chatbot.CompletionGateway,
	publisher IPublisherService,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessions:  sessions,
		settings:  settings,
		runtime:   runtime,
		gateway:   gateway,
		publisher: publisher,
		log:       log,
	}
}

func (cs *chatService) NewSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session, err := cs.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}

	cs.activeMu.Lock()
	cs.activeId = session.Id
	cs.activeMu.Unlock()

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (cs *chatService) Sessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error) {
	sessions, err := cs.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, &dto.SessionSummaryResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
		})
	}
	return response, nil
}

func (cs *chatService) History(ctx context.Context, sessionId string) ([]entity.Message, error) {
	return cs.currentMessages(ctx, sessionId)
}

// Send appends the user message BEFORE the completion call, so a failed call
// leaves the user's line visible. Nothing is persisted until the assistant
// reply has been appended; append-then-save is atomic from the caller's view.
func (cs *chatService) Send(ctx context.Context, sessionId string, request *dto.SendMessageRequest) (*dto.SendChatResponse, error) {
	if strings.TrimSpace(request.Content) == "" && request.Image == "" {
		return nil, ErrEmptyMessage
	}

	if !cs.runtime.TryBeginSending(sessionId) {
		return nil, ErrBusy
	}
	defer cs.runtime.EndSending(sessionId)

	messages, err := cs.currentMessages(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	userMessage := entity.Message{
		Id:        uuid.New().String(),
		Role:      constant.ChatMessageRoleUser,
		Content:   request.Content,
		Image:     request.Image,
		Timestamp: time.Now().UnixMilli(),
	}
	messages = append(messages, userMessage)
	cs.runtime.SetMessages(sessionId, messages)

	settings := cs.settings.Load(ctx)

	reply, err := cs.complete(ctx, messages, userMessage, settings)
	if err != nil {
		// The user message stays in the live sequence; the persisted session is
		// untouched.
		return nil, err
	}

	assistantMessage := entity.Message{
		Id:        uuid.New().String(),
		Role:      constant.ChatMessageRoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UnixMilli(),
	}
	messages = append(messages, assistantMessage)
	cs.runtime.SetMessages(sessionId, messages)

	if err := cs.sessions.Save(ctx, sessionId, messages, &settings); err != nil {
		return nil, err
	}

	cs.publishCompleted(ctx, sessionId, "send", userMessage, assistantMessage)

	return &dto.SendChatResponse{
		Sent:  &userMessage,
		Reply: &assistantMessage,
	}, nil
}

// Regenerate drops the message at index and everything after it, then re-issues
// a completion call with the content of the dropped message as the prompt.
//
// When index points at an assistant message its own prior answer becomes the
// new prompt. That mirrors the historical client behavior and is kept as-is;
// see the regenerate notes in DESIGN.md.
//
// A failed call leaves the truncated sequence live but unpersisted, so a
// restart restores the pre-truncation session.
func (cs *chatService) Regenerate(ctx context.Context, sessionId string, index int) (*dto.SendChatResponse, error) {
	if !cs.runtime.TryBeginSending(sessionId) {
		return nil, ErrBusy
	}
	defer cs.runtime.EndSending(sessionId)

	messages, err := cs.currentMessages(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(messages) {
		return nil, ErrInvalidIndex
	}

	target := messages[index]
	truncated := messages[:index]
	cs.runtime.SetMessages(sessionId, truncated)

	settings := cs.settings.Load(ctx)

	var reply string
	if target.Image != "" {
		reply, err = cs.gateway.CompleteWithImage(ctx, target.Content, target.Image, settings.CustomApiKey)
	} else {
		history := prompt.Build(truncated, settings)
		reply, err = cs.gateway.CompleteText(ctx, history, target.Content, generationConfig(settings), settings.CustomApiKey)
	}
	if err != nil {
		return nil, err
	}

	assistantMessage := entity.Message{
		Id:        uuid.New().String(),
		Role:      constant.ChatMessageRoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UnixMilli(),
	}
	updated := append(truncated, assistantMessage)
	cs.runtime.SetMessages(sessionId, updated)

	if err := cs.sessions.Save(ctx, sessionId, updated, &settings); err != nil {
		return nil, err
	}

	cs.publishCompleted(ctx, sessionId, "regenerate", target, assistantMessage)

	return &dto.SendChatResponse{Reply: &assistantMessage}, nil
}

func (cs *chatService) Rename(ctx context.Context, sessionId string, title string) error {
	return cs.sessions.Rename(ctx, sessionId, title)
}

// Delete removes the session and, when it was the active one, selects another
// existing session or creates a fresh one so there is always a current session.
func (cs *chatService) Delete(ctx context.Context, sessionId string) (*dto.DeleteSessionResponse, error) {
	if err := cs.sessions.Delete(ctx, sessionId); err != nil {
		return nil, err
	}
	cs.runtime.Delete(sessionId)

	cs.activeMu.Lock()
	wasActive := cs.activeId == sessionId || cs.activeId == ""
	if wasActive {
		cs.activeId = ""
	}
	cs.activeMu.Unlock()

	if !wasActive {
		cs.activeMu.Lock()
		active := cs.activeId
		cs.activeMu.Unlock()
		return &dto.DeleteSessionResponse{Active: active}, nil
	}

	active, err := cs.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteSessionResponse{Active: active}, nil
}

// ActiveSession returns the current session id, selecting the first persisted
// session or creating a new one when none is tracked yet.
func (cs *chatService) ActiveSession(ctx context.Context) (string, error) {
	cs.activeMu.Lock()
	active := cs.activeId
	cs.activeMu.Unlock()
	if active != "" {
		if _, err := cs.sessions.Get(ctx, active); err == nil {
			return active, nil
		}
	}

	sessions, err := cs.sessions.List(ctx)
	if err != nil {
		return "", err
	}
	if len(sessions) > 0 {
		cs.activeMu.Lock()
		cs.activeId = sessions[0].Id
		cs.activeMu.Unlock()
		return sessions[0].Id, nil
	}

	created, err := cs.NewSession(ctx)
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// Complete is the stateless boundary operation of POST /api/chat: settings and
// history travel in the request, no session is read or written.
func (cs *chatService) Complete(ctx context.Context, request *dto.ChatRequest) (string, error) {
	if strings.TrimSpace(request.Content) == "" && request.Image == "" {
		return "", ErrEmptyMessage
	}

	settings := entity.DefaultSettings()
	if request.Settings != nil {
		settings = *request.Settings
	}

	if request.Image != "" {
		return cs.gateway.CompleteWithImage(ctx, request.Content, request.Image, settings.CustomApiKey)
	}

	history := make([]prompt.Turn, 0, len(request.History))
	for _, turn := range request.History {
		history = append(history, prompt.Turn{Role: turn.Role, Text: turn.Text})
	}
	return cs.gateway.CompleteText(ctx, history, request.Content, generationConfig(settings), settings.CustomApiKey)
}

func (cs *chatService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return cs.gateway.Translate(ctx, text, targetLanguage)
}

func (cs *chatService) Transcribe(ctx context.Context, audioDataURI, mimeType string) (string, error) {
	return cs.gateway.Transcribe(ctx, audioDataURI, mimeType)
}

// Voices lists the speech-synthesis voices the client may pick from. Synthesis
// itself happens client-side; the descriptors are fixed.
func (cs *chatService) Voices(_ context.Context) []dto.VoiceDescriptor {
	return []dto.VoiceDescriptor{
		{VoiceId: "es-ES", Name: "Español (España)", LanguageCode: "es-ES", SsmlGender: "NEUTRAL"},
		{VoiceId: "es-MX", Name: "Español (México)", LanguageCode: "es-MX", SsmlGender: "NEUTRAL"},
		{VoiceId: "es-US", Name: "Español (Estados Unidos)", LanguageCode: "es-US", SsmlGender: "NEUTRAL"},
	}
}

// complete routes one user message to the right gateway call. Image turns are
// stateless single-shot calls; text turns carry the full rebuilt history,
// which deliberately still echoes the just-appended user line (the historical
// client sent it both in history and as the current input).
func (cs *chatService) complete(ctx context.Context, messages []entity.Message, userMessage entity.Message, settings entity.Settings) (string, error) {
	if userMessage.Image != "" {
		return cs.gateway.CompleteWithImage(ctx, userMessage.Content, userMessage.Image, settings.CustomApiKey)
	}
	history := prompt.Build(messages, settings)
	return cs.gateway.CompleteText(ctx, history, userMessage.Content, generationConfig(settings), settings.CustomApiKey)
}

// currentMessages returns the live sequence, seeding the runtime state from the
// persisted session on first touch.
func (cs *chatService) currentMessages(ctx context.Context, sessionId string) ([]entity.Message, error) {
	if messages, ok := cs.runtime.Messages(sessionId); ok {
		return messages, nil
	}

	session, err := cs.sessions.Get(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	cs.runtime.SetMessages(sessionId, session.Messages)
	return session.Messages, nil
}

func (cs *chatService) publishCompleted(ctx context.Context, sessionId, action string, sent, reply entity.Message) {
	payload := dto.ChatCompletedMessage{
		SessionId: sessionId,
		Action:    action,
		MessageId: sent.Id,
		Prompt:    sent.Content,
		ReplyId:   reply.Id,
		Reply:     reply.Content,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		cs.log.Warn("chat_service", "failed to marshal chat completed event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	// The transcript is auxiliary; a publish failure never fails the request.
	if err := cs.publisher.Publish(ctx, payloadJson); err != nil {
		cs.log.Warn("chat_service", "failed to publish chat completed event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func generationConfig(settings entity.Settings) chatbot.GenerationConfig {
	return chatbot.GenerationConfig{
		Temperature:     settings.Temperature,
		TopP:            settings.TopP,
		TopK:            settings.TopK,
		MaxOutputTokens: settings.MaxOutputTokens,
	}
}
