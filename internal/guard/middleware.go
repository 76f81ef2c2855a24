package guard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/health-gateway/internal/domain"
	"github.com/spec-kit/health-gateway/internal/session"
	apperrors "github.com/spec-kit/health-gateway/pkg/util"
)

// RequireLoggedIn gates API endpoints that need a usable session. A session
// whose credential resolved to role none (expired or garbage) is rejected the
// same as no session at all.
func RequireLoggedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := session.StateFromFiber(c)
		if !state.IsLoggedIn || state.Role == domain.RoleNone {
			return apperrors.NewUnauthorized("login required")
		}
		return c.Next()
	}
}

// RequireAdmin gates API endpoints reserved for the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := session.StateFromFiber(c)
		if !state.IsLoggedIn || state.Role == domain.RoleNone {
			return apperrors.NewUnauthorized("login required")
		}
		if state.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
