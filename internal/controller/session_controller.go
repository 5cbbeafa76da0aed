package controller

import (
	"errors"

	"unit-chat-be/internal/dto"
	"unit-chat-be/internal/pkg/serverutils"
	"unit-chat-be/internal/repository/contract"
	"unit-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	chatService service.IChatService
}

func NewSessionController(chatService service.IChatService) ISessionController {
	return &sessionController{
		chatService: chatService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id/messages", c.History)
	h.Post(":id/send", c.Send)
	h.Post(":id/regenerate", c.Regenerate)
	h.Patch(":id", c.Rename)
	h.Delete(":id", c.Delete)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.chatService.NewSession(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.chatService.Sessions(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	res, err := c.chatService.History(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *sessionController) Send(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatService.Send(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *sessionController) Regenerate(ctx *fiber.Ctx) error {
	var req dto.RegenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.chatService.Regenerate(ctx.Context(), ctx.Params("id"), *req.Index)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Message regenerated", res))
}

func (c *sessionController) Rename(ctx *fiber.Ctx) error {
	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.chatService.Rename(ctx.Context(), ctx.Params("id"), req.Title); err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session renamed", nil))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	res, err := c.chatService.Delete(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", res))
}

func sessionError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, contract.ErrSessionNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, service.ErrInvalidIndex):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, service.ErrBusy):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
}
