package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/config"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func gatedApp(gate *AdminGate) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code, "message": de.Message})
		},
	})
	app.Get("/admin", gate.Handle, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func call(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAdminGatePlainSecret(t *testing.T) {
	app := gatedApp(NewAdminGate(config.AdminConfig{APISecret: "s3cret"}, zap.NewNop()))

	assert.Equal(t, 200, call(t, app, "Bearer s3cret"))
	assert.Equal(t, 200, call(t, app, "bearer s3cret"))
	assert.Equal(t, 401, call(t, app, ""))
	assert.Equal(t, 401, call(t, app, "Bearer wrong"))
	assert.Equal(t, 401, call(t, app, "Bearer s3cret2"))
	assert.Equal(t, 401, call(t, app, "Basic s3cret"))
	assert.Equal(t, 401, call(t, app, "Bearer "))
}

func TestAdminGateHashedSecret(t *testing.T) {
	hash, err := HashSecret("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	app := gatedApp(NewAdminGate(config.AdminConfig{APISecret: "ignored", APISecretHash: hash}, zap.NewNop()))

	assert.Equal(t, 200, call(t, app, "Bearer s3cret"))
	assert.Equal(t, 401, call(t, app, "Bearer ignored"))
}

func TestAdminGateFailsClosedWithoutSecret(t *testing.T) {
	app := gatedApp(NewAdminGate(config.AdminConfig{}, zap.NewNop()))

	assert.Equal(t, 401, call(t, app, "Bearer "))
	assert.Equal(t, 401, call(t, app, "Bearer anything"))
}

func TestUnauthorizedBodyDoesNotLeakSecret(t *testing.T) {
	app := gatedApp(NewAdminGate(config.AdminConfig{APISecret: "s3cret"}, zap.NewNop()))
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer nope")

	resp, err := app.Test(req)
	require.NoError(t, err)
	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	assert.NotContains(t, string(buf[:n]), "s3cret")
	assert.Contains(t, string(buf[:n]), "UNAUTHORIZED")
}
