package controller

import (
	"unit-chat-be/internal/pkg/serverutils"
	"unit-chat-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type settingsController struct {
	settingsStore contract.SettingsStore
}

func NewSettingsController(settingsStore contract.SettingsStore) ISettingsController {
	return &settingsController{
		settingsStore: settingsStore,
	}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings")
	h.Get("", c.Show)
	h.Put("", c.Update)
}

func (c *settingsController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Settings", c.settingsStore.Load(ctx.Context())))
}

func (c *settingsController) Update(ctx *fiber.Ctx) error {
	var req contract.SettingsUpdate
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	settings, err := c.settingsStore.Update(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Settings updated", settings))
}
