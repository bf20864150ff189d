package serverutils

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"askq-be/internal/entity"
	"askq-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": " 203.0.113.5 , 10.0.0.1"}, want: "203.0.113.5"},
		{name: "real ip fallback", headers: map[string]string{"X-Real-IP": "198.51.100.2"}, want: "198.51.100.2"},
		{name: "forwarded beats real ip", headers: map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, want: "1.1.1.1"},
		{name: "unknown bucket", headers: nil, want: UnknownIP},
		{name: "unknown with device", headers: map[string]string{HeaderDeviceID: "abc"}, want: "device:abc"},
		{name: "device ignored when ip known", headers: map[string]string{"X-Real-IP": "2.2.2.2", HeaderDeviceID: "abc"}, want: "2.2.2.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				return ctx.SendString(QuotaKey(ctx))
			})

			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

type stubResolver struct {
	users map[string]*entity.User
}

func (r stubResolver) ResolveSession(_ context.Context, token string) (*entity.User, error) {
	if user, ok := r.users[token]; ok {
		return user, nil
	}
	return nil, apperror.ErrUnauthenticated
}

func TestSessionMiddlewareAndOwner(t *testing.T) {
	resolver := stubResolver{users: map[string]*entity.User{"good": {Id: 42, Email: "a@b.c"}}}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nopLogger())})
	app.Use(SessionMiddleware(resolver, "session"))
	app.Get("/owner", func(ctx *fiber.Ctx) error {
		owner := Owner(ctx)
		return ctx.JSON(fiber.Map{"user_id": owner.UserId, "device_id": owner.DeviceId})
	})
	app.Get("/private", RequireUser, func(ctx *fiber.Ctx) error {
		return ctx.SendString(CurrentUser(ctx).Email)
	})

	t.Run("valid cookie wins over device", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/owner", nil)
		req.Header.Set("Cookie", "session=good")
		req.Header.Set(HeaderDeviceID, "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"user_id":42,"device_id":""}`, string(body))
	})

	t.Run("unknown cookie falls back to device", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/owner", nil)
		req.Header.Set("Cookie", "session=bad")
		req.Header.Set(HeaderDeviceID, "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"user_id":0,"device_id":"abc"}`, string(body))
	})

	t.Run("require user", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/private", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
		req.Header.Set("Cookie", "session=good")
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
