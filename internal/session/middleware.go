package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/spec-kit/health-gateway/internal/config"
	"github.com/spec-kit/health-gateway/internal/domain"
)

const (
	sessionIDKey    = "session_id"
	sessionStateKey = "session_state"
)

// Middleware establishes the gateway session cookie and resolves the session
// state exactly once per request, before any guarded handler runs.
type Middleware struct {
	manager    *Manager
	cookieName string
	ttl        time.Duration
}

// NewMiddleware constructs the middleware.
func NewMiddleware(manager *Manager, cfg config.SessionConfig) *Middleware {
	return &Middleware{manager: manager, cookieName: cfg.CookieName, ttl: cfg.TTL()}
}

// Handle assigns a session ID cookie to first-time visitors and attaches the
// resolved state to the request.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	// c.Cookies returns a string aliasing fasthttp's per-request buffer; the
	// session ID outlives the request (context, locals, credential store), so
	// it must be copied before it escapes.
	sessionID := utils.CopyString(c.Cookies(m.cookieName))
	if sessionID == "" {
		sessionID = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     m.cookieName,
			Value:    sessionID,
			HTTPOnly: true,
			SameSite: "Lax",
			MaxAge:   int(m.ttl.Seconds()),
		})
	}

	c.SetUserContext(WithSessionID(c.UserContext(), sessionID))
	state := m.manager.Resolve(c.UserContext(), sessionID)

	c.Locals(sessionIDKey, sessionID)
	c.Locals(sessionStateKey, state)
	return c.Next()
}

// IDFromFiber returns the session ID established for this request.
func IDFromFiber(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(sessionIDKey).(string)
	return sessionID
}

// StateFromFiber returns the session state resolved for this request.
func StateFromFiber(c *fiber.Ctx) domain.State {
	state, ok := c.Locals(sessionStateKey).(domain.State)
	if !ok {
		return domain.LoggedOut()
	}
	return state
}
