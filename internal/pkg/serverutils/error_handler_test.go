package serverutils

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() logger.ILogger {
	return logger.NewNopLogger()
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperror.NewValidation("Invalid email"), 400, `{"error":"Invalid email"}`},
		{"invalid code", apperror.ErrInvalidOrExpiredCode, 400, `{"error":"Invalid or expired code"}`},
		{"unauthenticated", apperror.ErrUnauthenticated, 401, `{"error":"Unauthorized"}`},
		{"not found", apperror.ErrNotFound, 404, `{"error":"Not found"}`},
		{"quota", &apperror.QuotaExceededError{Count: 10, Limit: 10}, 403, `{"error":"limit_reached","count":10}`},
		{"upstream", &apperror.UpstreamError{Err: errors.New("timeout")}, 500, `{"error":"Failed to get response"}`},
		{"fiber error", fiber.NewError(fiber.StatusInternalServerError, "Failed to send code"), 500, `{"error":"Failed to send code"}`},
		{"unknown", errors.New("boom"), 500, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nopLogger())})
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Email string `validate:"required,contains=@"`
	}

	assert.NoError(t, ValidateRequest(&request{Email: "a@b.c"}))

	err := ValidateRequest(&request{Email: "nope"})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Message, "Email")
}
