package controller

import (
	"errors"
	"time"

	"askq-be/internal/dto"
	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/serverutils"
	"askq-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	SendCode(ctx *fiber.Ctx) error
	Verify(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
}

// SessionCookieConfig describes the cookie carrying the session token.
type SessionCookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type authController struct {
	service service.IAuthService
	cookie  SessionCookieConfig
}

func NewAuthController(service service.IAuthService, cookie SessionCookieConfig) IAuthController {
	return &authController{service: service, cookie: cookie}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/send-code", c.SendCode)
	h.Post("/verify", c.Verify)
	h.Get("/me", c.Me)
}

func (c *authController) SendCode(ctx *fiber.Ctx) error {
	var req dto.SendCodeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidation("Invalid email")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return apperror.NewValidation("Invalid email")
	}

	if err := c.service.RequestCode(ctx.UserContext(), req.Email); err != nil {
		var validation *apperror.ValidationError
		if errors.As(err, &validation) {
			return err
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to send code")
	}
	return ctx.JSON(dto.SuccessResponse{Success: true})
}

func (c *authController) Verify(ctx *fiber.Ctx) error {
	var req dto.VerifyCodeRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return apperror.NewValidation("Missing email or code")
	}

	token, err := c.service.VerifyCode(ctx.UserContext(), req.Email, req.Code, req.DeviceId)
	if err != nil {
		return err
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     c.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.cookie.MaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   c.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ctx.JSON(dto.SuccessResponse{Success: true})
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	user := serverutils.CurrentUser(ctx)
	if user == nil {
		return ctx.JSON(dto.MeResponse{})
	}
	return ctx.JSON(dto.MeResponse{User: &dto.UserDTO{Email: user.Email}})
}
