package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/health-gateway/internal/api/dto"
	"github.com/spec-kit/health-gateway/internal/backend"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/session"
	apperrors "github.com/spec-kit/health-gateway/pkg/util"
)

// QuestionnaireHandler proxies questionnaire and review endpoints to the
// backend, attaching the session's stored credential.
type QuestionnaireHandler struct {
	backend  *backend.Client
	sessions *session.Manager
}

// NewQuestionnaireHandler constructs handler.
func NewQuestionnaireHandler(backendClient *backend.Client, sessions *session.Manager) *QuestionnaireHandler {
	return &QuestionnaireHandler{backend: backendClient, sessions: sessions}
}

// List handles GET /api/questionnaires.
func (h *QuestionnaireHandler) List(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	items, err := h.backend.ListQuestionnaires(c.UserContext(), credential)
	if err != nil {
		return mapBackendError(err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Submit handles POST /api/questionnaires/submit, forwarding the complete
// multi-section payload untouched.
func (h *QuestionnaireHandler) Submit(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	payload := c.Body()
	if len(payload) == 0 {
		return apperrors.NewValidationError("questionnaire payload required", nil)
	}
	result, err := h.backend.SubmitComplete(c.UserContext(), credential, json.RawMessage(payload))
	if err != nil {
		return mapBackendError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": result})
}

// Pending handles GET /api/admin/pending.
func (h *QuestionnaireHandler) Pending(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	items, err := h.backend.PendingReviews(c.UserContext(), credential)
	if err != nil {
		return mapBackendError(err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// AllReviews handles GET /api/admin/reviews.
func (h *QuestionnaireHandler) AllReviews(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	items, err := h.backend.AllReviews(c.UserContext(), credential)
	if err != nil {
		return mapBackendError(err)
	}
	return c.JSON(fiber.Map{"data": items})
}

// AdminDetail handles GET /api/admin/questionnaires/:id.
func (h *QuestionnaireHandler) AdminDetail(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	detail, err := h.backend.AdminDetail(c.UserContext(), credential, id)
	if err != nil {
		return mapBackendError(err)
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Review handles POST /api/admin/questionnaires/:id/review.
func (h *QuestionnaireHandler) Review(c *fiber.Ctx) error {
	credential, ok := h.credential(c)
	if !ok {
		return redirectToLogin()
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AdminFeedback == "" {
		return apperrors.NewValidationError("admin_feedback required", nil)
	}
	if req.Status == "" {
		req.Status = "reviewed"
	}

	result, err := h.backend.Review(c.UserContext(), credential, id, req.AdminFeedback, req.Status)
	if err != nil {
		return mapBackendError(err)
	}
	return c.JSON(fiber.Map{"data": result})
}

func (h *QuestionnaireHandler) credential(c *fiber.Ctx) (string, bool) {
	return h.sessions.Credential(c.UserContext(), session.IDFromFiber(c))
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid questionnaire id", nil)
	}
	return id, nil
}

// mapBackendError translates client errors: a 401 has already torn down the
// session by the time it surfaces here, so it becomes a redirect-to-login;
// anything else stays a page-local error.
func mapBackendError(err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return redirectToLogin()
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return apperrors.NewNotFound("questionnaire", nil)
		}
		return apperrors.NewDomainError("BACKEND_ERROR", "backend request failed", apiErr.Status,
			map[string]any{"detail": apiErr.Body})
	}
	return apperrors.NewBadGateway("backend unavailable", err)
}

func redirectToLogin() error {
	return apperrors.NewDomainError("UNAUTHORIZED", "session invalidated", http.StatusUnauthorized,
		map[string]any{"redirect": guard.PathLogin})
}
