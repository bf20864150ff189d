package controller

import (
	"askq-be/internal/dto"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/serverutils"
	"askq-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.SendChat)
}

func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return apperror.NewValidation("Invalid message role")
	}

	identity := service.ChatIdentity{
		User:     serverutils.CurrentUser(ctx),
		QuotaKey: serverutils.QuotaKey(ctx),
	}
	res, err := c.service.SendChat(ctx.UserContext(), identity, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
