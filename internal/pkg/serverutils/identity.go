package serverutils

import (
	"context"
	"errors"
	"strings"

	"askq-be/internal/entity"
	"askq-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderDeviceID = "X-Device-Id"
	HeaderRealIP   = "X-Real-IP"
	UnknownIP      = "unknown"

	localsUser = "user"
)

// SessionResolver maps a raw session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// ClientIP takes the first X-Forwarded-For hop, then X-Real-IP, then "unknown".
func ClientIP(ctx *fiber.Ctx) string {
	if forwarded := ctx.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(ctx.Get(HeaderRealIP)); realIP != "" {
		return realIP
	}
	return UnknownIP
}

func DeviceID(ctx *fiber.Ctx) string {
	return strings.TrimSpace(ctx.Get(HeaderDeviceID))
}

// QuotaKey is the anonymous usage bucket for the request. Clients with no
// forwarding headers fall into "unknown" unless they identify their device.
func QuotaKey(ctx *fiber.Ctx) string {
	ip := ClientIP(ctx)
	if ip != UnknownIP {
		return ip
	}
	if device := DeviceID(ctx); device != "" {
		return "device:" + device
	}
	return UnknownIP
}

// SessionMiddleware resolves the session cookie, if any, and stores the user
// in Locals. Unknown tokens leave the request anonymous.
func SessionMiddleware(resolver SessionResolver, cookieName string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(cookieName)
		if token == "" {
			return ctx.Next()
		}

		user, err := resolver.ResolveSession(ctx.UserContext(), token)
		if err != nil {
			if errors.Is(err, apperror.ErrUnauthenticated) {
				return ctx.Next()
			}
			return err
		}
		ctx.Locals(localsUser, user)
		return ctx.Next()
	}
}

// CurrentUser returns the session user or nil for anonymous requests.
func CurrentUser(ctx *fiber.Ctx) *entity.User {
	user, _ := ctx.Locals(localsUser).(*entity.User)
	return user
}

func RequireUser(ctx *fiber.Ctx) error {
	if CurrentUser(ctx) == nil {
		return apperror.ErrUnauthenticated
	}
	return ctx.Next()
}

// Owner is the conversation identity for the request: the session user,
// else the X-Device-Id header. The zero Owner means no identity.
func Owner(ctx *fiber.Ctx) entity.Owner {
	if user := CurrentUser(ctx); user != nil {
		return entity.UserOwner(user.Id)
	}
	if device := DeviceID(ctx); device != "" {
		return entity.DeviceOwner(device)
	}
	return entity.Owner{}
}
