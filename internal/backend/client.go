package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/health-gateway/internal/config"
)

// ErrUnauthorized reports that the backend rejected the supplied credential
// (or login attempt) with HTTP 401. By the time a caller sees it, the
// registered unauthorized hook has already run.
var ErrUnauthorized = errors.New("backend rejected credential")

// APIError carries a non-401 upstream failure back to the invoking page. It
// is a local, recoverable error and never triggers session invalidation.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// UnauthorizedHandler is invoked on every 401 response, before the call
// returns ErrUnauthorized. Exactly one handler is registered process-wide so
// all call sites share the same invalidation path.
type UnauthorizedHandler func(ctx context.Context)

// Client is the only way the gateway talks to the questionnaire backend.
// Every call funnels through do(), which attaches the bearer credential and
// applies the shared 401 handling.
type Client struct {
	baseURL        string
	httpc          *http.Client
	logger         *zap.Logger
	onUnauthorized UnauthorizedHandler
}

// NewClient builds a client against the configured backend base URL.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// SetUnauthorizedHandler registers the single session-invalidation hook.
func (c *Client) SetUnauthorizedHandler(fn UnauthorizedHandler) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for a bearer token. The returned string is
// opaque to the gateway beyond the advisory claim decode.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login/", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	credential := resp.credential()
	if credential == "" {
		return "", &APIError{Status: http.StatusBadGateway, Body: "login response carried no credential"}
	}
	return credential, nil
}

// Register creates an account. It does not establish a session; callers log
// in separately afterwards.
func (c *Client) Register(ctx context.Context, username, email, password, password2 string) error {
	req := registerRequest{Username: username, Email: email, Password: password, Password2: password2}
	return c.do(ctx, http.MethodPost, "/auth/register/", "", req, nil)
}

// ListQuestionnaires returns the caller's questionnaires.
func (c *Client) ListQuestionnaires(ctx context.Context, credential string) ([]Questionnaire, error) {
	var out []Questionnaire
	if err := c.do(ctx, http.MethodGet, "/health-questionnaires/", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitComplete forwards a full questionnaire submission. The payload shape
// belongs to the backend; the gateway passes it through untouched.
func (c *Client) SubmitComplete(ctx context.Context, credential string, payload json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/health-questionnaires/submit_complete/", credential, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingReviews lists submissions awaiting admin review.
func (c *Client) PendingReviews(ctx context.Context, credential string) ([]Questionnaire, error) {
	var out []Questionnaire
	if err := c.do(ctx, http.MethodGet, "/health-questionnaires/pending/", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllReviews lists every reviewed submission.
func (c *Client) AllReviews(ctx context.Context, credential string) ([]Questionnaire, error) {
	var out []Questionnaire
	if err := c.do(ctx, http.MethodGet, "/health-questionnaires/all_reviews/", credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDetail fetches one submission with all sections expanded.
func (c *Client) AdminDetail(ctx context.Context, credential string, id int64) (json.RawMessage, error) {
	var out json.RawMessage
	path := fmt.Sprintf("/health-questionnaires/%d/admin_detail/", id)
	if err := c.do(ctx, http.MethodGet, path, credential, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Review records admin feedback and a status on a submission.
func (c *Client) Review(ctx context.Context, credential string, id int64, feedback, status string) (*ReviewResult, error) {
	var out ReviewResult
	path := fmt.Sprintf("/health-questionnaires/%d/review/", id)
	req := reviewRequest{AdminFeedback: feedback, Status: status}
	if err := c.do(ctx, http.MethodPost, path, credential, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, credential string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Warn("backend returned 401; invalidating session",
			zap.String("method", method), zap.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}
