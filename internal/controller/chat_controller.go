package controller

import (
	"errors"

	"unit-chat-be/internal/dto"
	"unit-chat-be/internal/pkg/serverutils"
	"unit-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IChatController serves the collaborator-boundary endpoints. Their request and
// response bodies are a fixed contract with the browser client, so they bypass
// the success/error envelope used by the session routes.
type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Translate(ctx *fiber.Ctx) error
	Transcribe(ctx *fiber.Ctx) error
	Voices(ctx *fiber.Ctx) error
	TextToSpeech(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/translate", c.Translate)
	r.Post("/transcribe", c.Transcribe)
	r.Get("/voices", c.Voices)
	r.Post("/text-to-speech", c.TextToSpeech)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}

	response, err := c.chatService.Complete(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return chatError(ctx, fiber.StatusBadRequest, "Message content is required", err)
		}
		return chatError(ctx, fiber.StatusInternalServerError, "Internal server error", err)
	}

	return ctx.JSON(dto.ChatResponse{Response: response})
}

func (c *chatController) Translate(ctx *fiber.Ctx) error {
	var req dto.TranslateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}

	translation, err := c.chatService.Translate(ctx.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		return chatError(ctx, fiber.StatusInternalServerError, "Error al traducir el texto", err)
	}

	return ctx.JSON(dto.TranslateResponse{Translation: translation})
}

func (c *chatController) Transcribe(ctx *fiber.Ctx) error {
	var req dto.TranscribeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}

	transcription, err := c.chatService.Transcribe(ctx.Context(), req.Audio, req.MimeType)
	if err != nil {
		return chatError(ctx, fiber.StatusInternalServerError, "Error al transcribir el audio", err)
	}

	return ctx.JSON(dto.TranscribeResponse{Transcription: transcription})
}

func (c *chatController) Voices(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.VoicesResponse{Voices: c.chatService.Voices(ctx.Context())})
}

func (c *chatController) TextToSpeech(ctx *fiber.Ctx) error {
	var req dto.TextToSpeechRequest
	if err := ctx.BodyParser(&req); err != nil {
		return chatError(ctx, fiber.StatusBadRequest, "Invalid request body", err)
	}

	// Synthesis runs client-side; the endpoint just echoes the text through.
	return ctx.JSON(dto.TextToSpeechResponse{Text: req.Text})
}

func chatError(ctx *fiber.Ctx, status int, message string, err error) error {
	return ctx.Status(status).JSON(dto.ChatErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
}
