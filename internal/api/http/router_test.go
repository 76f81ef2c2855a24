package http

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/health-gateway/internal/api/http/handlers"
	"github.com/spec-kit/health-gateway/internal/backend"
	"github.com/spec-kit/health-gateway/internal/config"
	"github.com/spec-kit/health-gateway/internal/guard"
	"github.com/spec-kit/health-gateway/internal/observability"
	"github.com/spec-kit/health-gateway/internal/repository"
	"github.com/spec-kit/health-gateway/internal/session"
)

const testCookie = "hg_session"

type testEnv struct {
	app     *fiber.App
	backend *httptest.Server
	// deny makes the fake backend reject authenticated calls with 401
	deny atomic.Bool
}

func issueToken(t *testing.T, username string, staff bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  int64(1),
		"username": username,
		"is_staff": staff,
		"exp":      jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}

	env.backend = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret" {
				w.WriteHeader(nethttp.StatusUnauthorized)
				return
			}
			staff := body["username"] == "healthadmin"
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access": issueToken(t, body["username"], staff),
			})
		case "/auth/register/":
			w.WriteHeader(nethttp.StatusCreated)
		case "/health-questionnaires/":
			if env.deny.Load() {
				w.WriteHeader(nethttp.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`[{"id":1,"status":"pending","admin_feedback":""}]`))
		default:
			w.WriteHeader(nethttp.StatusNotFound)
		}
	}))
	t.Cleanup(env.backend.Close)

	logger := zap.NewNop()
	creds := repository.NewMemoryCredentialRepository()
	sessions := session.NewManager(
		creds,
		session.NewDecoder(),
		session.NewResolver(config.AuthConfig{
			AdminUsername: "healthadmin",
			AdminEmail:    "admin@healthplatform.com",
		}),
		nil,
		logger,
	)

	client := backend.NewClient(config.BackendConfig{BaseURL: env.backend.URL, TimeoutSeconds: 2}, logger)
	client.SetUnauthorizedHandler(func(ctx context.Context) {
		if sessionID, ok := session.IDFromContext(ctx); ok {
			_ = sessions.Invalidate(ctx, sessionID)
		}
	})

	env.app = fiber.New()
	RegisterMiddlewares(env.app, logger, observability.NewMetrics(), 5*time.Second)
	RegisterRoutes(env.app, RouteConfig{
		Health:         handlers.NewHealthHandler("health-gateway", "test", nil, nil),
		Pages:          handlers.NewPagesHandler(guard.New()),
		Auth:           handlers.NewAuthHandler(client, sessions),
		Questionnaires: handlers.NewQuestionnaireHandler(client, sessions),
		Session:        session.NewMiddleware(sessions, config.SessionConfig{CookieName: testCookie, TTLHours: 1}),
	})

	return env
}

func (e *testEnv) request(t *testing.T, method, path, sessionID string, body any) *nethttp.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.AddCookie(&nethttp.Cookie{Name: testCookie, Value: sessionID})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionCookie(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookie {
			return cookie.Value
		}
	}
	t.Fatal("no session cookie issued")
	return ""
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()
	resp := e.request(t, nethttp.MethodGet, guard.PathLanding, "", nil)
	sessionID := sessionCookie(t, resp)

	loginResp := e.request(t, nethttp.MethodPost, "/auth/login", sessionID,
		map[string]string{"username": username, "password": "secret"})
	require.Equal(t, nethttp.StatusOK, loginResp.StatusCode)
	return sessionID
}

func TestGateway_FreshLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	// anonymous dashboard visit bounces to login
	resp := env.request(t, nethttp.MethodGet, guard.PathDashboard, "", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.PathLogin, resp.Header.Get("Location"))
	sessionID := sessionCookie(t, resp)

	loginResp := env.request(t, nethttp.MethodPost, "/auth/login", sessionID,
		map[string]string{"username": "pat", "password": "secret"})
	require.Equal(t, nethttp.StatusOK, loginResp.StatusCode)
	body := decodeBody(t, loginResp)
	data := body["data"].(map[string]any)
	assert.Equal(t, guard.PathDashboard, data["redirect"])

	// same navigation now renders
	resp = env.request(t, nethttp.MethodGet, guard.PathDashboard, sessionID, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	page := decodeBody(t, resp)
	assert.Equal(t, guard.RouteDashboard, page["page"])
	sessionView := page["session"].(map[string]any)
	assert.Equal(t, true, sessionView["logged_in"])
	assert.Equal(t, "PATIENT", sessionView["role"])
}

func TestGateway_AdminRouting(t *testing.T) {
	env := newTestEnv(t)
	adminID := env.login(t, "healthadmin")

	resp := env.request(t, nethttp.MethodGet, guard.PathAdminDashboard, adminID, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, guard.RouteAdminDashboard, decodeBody(t, resp)["page"])

	// logged-in admin hitting the login page is sent to the admin dashboard
	resp = env.request(t, nethttp.MethodGet, guard.PathLogin, adminID, nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.PathAdminDashboard, resp.Header.Get("Location"))

	// a patient is pushed off admin routes, toward their own dashboard
	patientID := env.login(t, "pat")
	resp = env.request(t, nethttp.MethodGet, guard.PathAdminDashboard, patientID, nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.PathDashboard, resp.Header.Get("Location"))
}

func TestGateway_UnauthorizedMidSession(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login(t, "pat")

	env.deny.Store(true)
	resp := env.request(t, nethttp.MethodGet, "/api/questionnaires", sessionID, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	// the 401 tore the session down; protected navigation bounces to login
	resp = env.request(t, nethttp.MethodGet, guard.PathDashboard, sessionID, nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, guard.PathLogin, resp.Header.Get("Location"))
}

func TestGateway_Logout(t *testing.T) {
	env := newTestEnv(t)
	sessionID := env.login(t, "healthadmin")

	resp := env.request(t, nethttp.MethodPost, "/auth/logout", sessionID, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	for _, path := range []string{guard.PathDashboard, guard.PathAdminDashboard} {
		resp = env.request(t, nethttp.MethodGet, path, sessionID, nil)
		assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, guard.PathLogin, resp.Header.Get("Location"), path)
	}
}

func TestGateway_BadLoginLeavesSessionAnonymous(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, nethttp.MethodGet, guard.PathLanding, "", nil)
	sessionID := sessionCookie(t, resp)

	loginResp := env.request(t, nethttp.MethodPost, "/auth/login", sessionID,
		map[string]string{"username": "pat", "password": "wrong"})
	assert.Equal(t, nethttp.StatusUnauthorized, loginResp.StatusCode)

	resp = env.request(t, nethttp.MethodGet, guard.PathDashboard, sessionID, nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
}

func TestGateway_APIRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, nethttp.MethodGet, "/api/questionnaires", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	// patient sessions cannot reach admin proxies
	patientID := env.login(t, "pat")
	resp = env.request(t, nethttp.MethodGet, "/api/admin/pending", patientID, nil)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}

func TestGateway_UnknownPathRendersNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, nethttp.MethodGet, "/nope", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Equal(t, guard.RouteNotFound, decodeBody(t, resp)["page"])
}
