package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/health-gateway/internal/api/dto"
	"github.com/spec-kit/health-gateway/internal/backend"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/session"
	apperrors "github.com/spec-kit/health-gateway/pkg/util"
)

// AuthHandler exposes the login/register/logout endpoints. Authentication
// itself happens upstream; the gateway only stores the issued credential.
type AuthHandler struct {
	backend  *backend.Client
	sessions *session.Manager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(backendClient *backend.Client, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{backend: backendClient, sessions: sessions}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	credential, err := h.backend.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return apperrors.NewValidationError("login rejected", fiber.Map{"detail": apiErr.Body})
		}
		return apperrors.NewBadGateway("login unavailable", err)
	}

	state, err := h.sessions.Login(c.UserContext(), session.IDFromFiber(c), credential)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session":  dto.SessionFromState(state),
			"redirect": guard.DashboardFor(state.Role),
		},
	})
}

// Register handles POST /auth/register. A successful registration does not
// establish a session; the client logs in afterwards.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Password2 == "" {
		return apperrors.NewValidationError("username, email, password, password2 required", nil)
	}

	if err := h.backend.Register(c.UserContext(), req.Username, req.Email, req.Password, req.Password2); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return apperrors.NewValidationError("registration rejected", fiber.Map{"detail": apiErr.Body})
		}
		return apperrors.NewBadGateway("registration unavailable", err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"redirect": guard.PathLogin},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), session.IDFromFiber(c)); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"redirect": guard.PathLogin},
	})
}
