package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/health-gateway/internal/api/dto"
	"github.com/spec-kit/health-gateway/internal/domain"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/session"
)

// PagesHandler resolves guard decisions for page navigations. A render
// becomes a JSON page envelope, a redirect becomes 303 See Other.
type PagesHandler struct {
	guard *guard.Guard
}

// NewPagesHandler constructs the handler.
func NewPagesHandler(g *guard.Guard) *PagesHandler {
	return &PagesHandler{guard: g}
}

// Serve authorizes the requested path against the session state resolved for
// this request. Also registered as the not-found fallback.
func (h *PagesHandler) Serve(c *fiber.Ctx) error {
	state := session.StateFromFiber(c)
	decision := h.guard.Authorize(c.Path(), state)

	if decision.Action == domain.ActionRedirect {
		return c.Redirect(decision.Target, fiber.StatusSeeOther)
	}

	status := http.StatusOK
	if decision.Route == guard.RouteNotFound {
		status = http.StatusNotFound
	}
	return c.Status(status).JSON(dto.PageResponse{
		Page:    decision.Route,
		Session: dto.SessionFromState(state),
	})
}
