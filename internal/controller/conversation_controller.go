package controller

import (
	"askq-be/internal/dto"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/serverutils"
	"askq-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
}

type conversationController struct {
	service service.IConversationService
}

func NewConversationController(service service.IConversationService) IConversationController {
	return &conversationController{service: service}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversations")
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Delete("/", c.Delete)
	h.Get("/:id", serverutils.RequireUser, c.GetMessages)
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	conversations, err := c.service.List(ctx.UserContext(), serverutils.Owner(ctx), limit, offset)
	if err != nil {
		return err
	}

	res := dto.ConversationListResponse{Conversations: make([]dto.ConversationDTO, 0, len(conversations))}
	for _, conversation := range conversations {
		res.Conversations = append(res.Conversations, dto.ConversationDTO{
			Id:        conversation.Id,
			Title:     conversation.Title,
			CreatedAt: conversation.CreatedAt,
		})
	}
	return ctx.JSON(res)
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	conversation, err := c.service.Create(ctx.UserContext(), serverutils.Owner(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.CreateConversationResponse{Id: conversation.Id})
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	owner := serverutils.Owner(ctx)
	if !owner.Valid() {
		return apperror.ErrUnauthenticated
	}

	var req dto.DeleteConversationRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), owner, req.Id); err != nil {
		return err
	}
	return ctx.JSON(dto.SuccessResponse{Success: true})
}

func (c *conversationController) GetMessages(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperror.NewValidation("Invalid conversation id")
	}

	messages, err := c.service.GetDisplayHistory(ctx.UserContext(), serverutils.Owner(ctx), uint(id))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.ConversationMessagesResponse{Messages: messages})
}
