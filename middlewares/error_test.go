package middlewares

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bizbilling-backend/pricing"
)

func errorApp(handlerErr error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return handlerErr
	})
	return app
}

func requestBody(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestErrorHandlerMapsDuplicateKeyTo409(t *testing.T) {
	status, body := requestBody(t, errorApp(gorm.ErrDuplicatedKey))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body, "duplicate record")
}

func TestErrorHandlerMapsNotFoundTo404(t *testing.T) {
	status, body := requestBody(t, errorApp(gorm.ErrRecordNotFound))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, "not found")
}

func TestErrorHandlerMapsPricingViolationTo422(t *testing.T) {
	status, body := requestBody(t, errorApp(&pricing.ValidationError{
		Field: "quantity", Reason: "must be greater than zero",
	}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "invalid quantity")
}

func TestErrorHandlerSanitizesUnknownErrors(t *testing.T) {
	status, body := requestBody(t, errorApp(
		errors.New(`pq: password authentication failed for user "billing"`)))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, "internal server error")
	assert.NotContains(t, body, "password", "driver detail must not leak to clients")
}
