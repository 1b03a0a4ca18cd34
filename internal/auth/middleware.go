package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AdminGate guards back-office operations behind one shared bearer secret.
type AdminGate struct {
	verifier secretVerifier
}

// NewAdminGate prefers the bcrypt hash when both forms are configured.
// With neither configured every admin request is rejected.
func NewAdminGate(cfg config.AdminConfig, logger *zap.Logger) *AdminGate {
	switch {
	case strings.TrimSpace(cfg.APISecretHash) != "":
		return &AdminGate{verifier: hashedSecret(strings.TrimSpace(cfg.APISecretHash))}
	case cfg.APISecret != "":
		return &AdminGate{verifier: plainSecret(cfg.APISecret)}
	default:
		logger.Warn("no admin secret configured; admin endpoints will reject all requests")
		return &AdminGate{verifier: rejectAll{}}
	}
}

// Handle enforces the gate for protected routes.
func (g *AdminGate) Handle(c *fiber.Ctx) error {
	if err := g.Authorize(c); err != nil {
		return err
	}
	return c.Next()
}

// Authorize checks the request without continuing the chain, for handlers that
// serve public and admin variants on one route.
func (g *AdminGate) Authorize(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok || !g.verifier.Verify(token) {
		return apperrors.NewUnauthorized("unauthorized")
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
