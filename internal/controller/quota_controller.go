package controller

import (
	"askq-be/internal/dto"
	"askq-be/internal/pkg/serverutils"
	"askq-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuotaController interface {
	RegisterRoutes(r fiber.Router)
	Count(ctx *fiber.Ctx) error
}

type quotaController struct {
	service service.IQuotaService
}

func NewQuotaController(service service.IQuotaService) IQuotaController {
	return &quotaController{service: service}
}

func (c *quotaController) RegisterRoutes(r fiber.Router) {
	r.Get("/count", c.Count)
}

func (c *quotaController) Count(ctx *fiber.Ctx) error {
	count, err := c.service.GetCount(ctx.UserContext(), serverutils.QuotaKey(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(dto.CountResponse{Count: count})
}
