package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/health-gateway/internal/domain"
	"github.com/spec-kit/health-gateway/internal/events"
	"github.com/spec-kit/health-gateway/internal/repository"
)

// Manager owns the credential lifecycle for gateway sessions. State is never
// cached between requests: every guard decision goes through Resolve, so a
// render cannot observe a credential change without the matching role
// recomputation.
type Manager struct {
	creds      repository.CredentialRepository
	decoder    *Decoder
	resolver   *Resolver
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewManager builds the manager.
func NewManager(creds repository.CredentialRepository, decoder *Decoder, resolver *Resolver, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	return &Manager{
		creds:      creds,
		decoder:    decoder,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Resolve derives the current session state from the stored credential. A
// credential that fails to decode is cleared on the spot, so a session can
// never sit in a "credential present but undecodable" limbo. Storage read
// failures degrade to logged out rather than surfacing an error.
func (m *Manager) Resolve(ctx context.Context, sessionID string) domain.State {
	credential, err := m.creds.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrNoCredential) {
			m.logger.Warn("credential read failed; treating session as logged out", zap.Error(err))
		}
		return domain.LoggedOut()
	}

	claims, err := m.decoder.Decode(credential)
	if err != nil {
		m.logger.Warn("stored credential failed to decode; clearing it", zap.Error(err))
		if clearErr := m.creds.Clear(ctx, sessionID); clearErr != nil {
			m.logger.Error("failed to clear undecodable credential", zap.Error(clearErr))
		}
		m.publish(ctx, events.EventSessionInvalidated, sessionID,
			events.SessionInvalidatedPayload{Reason: "decode_failure"})
		return domain.LoggedOut()
	}

	return domain.State{
		IsLoggedIn: true,
		Role:       m.resolver.Resolve(claims),
		Username:   claims.Username,
	}
}

// Login persists the backend-issued credential and returns the recomputed
// state, keeping the stored credential and the derived role in lockstep.
func (m *Manager) Login(ctx context.Context, sessionID, credential string) (domain.State, error) {
	if err := m.creds.Save(ctx, sessionID, credential); err != nil {
		return domain.LoggedOut(), err
	}
	state := m.Resolve(ctx, sessionID)
	m.publish(ctx, events.EventSessionLogin, sessionID,
		events.SessionLoginPayload{Username: state.Username, Role: state.Role})
	return state, nil
}

// Logout clears the stored credential. Safe to call repeatedly.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	if err := m.creds.Clear(ctx, sessionID); err != nil {
		return err
	}
	m.publish(ctx, events.EventSessionLogout, sessionID, nil)
	return nil
}

// Invalidate is the single entry point for 401-driven session teardown. All
// backend call sites funnel through it via the client's unauthorized hook.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	if err := m.creds.Clear(ctx, sessionID); err != nil {
		return err
	}
	m.publish(ctx, events.EventSessionInvalidated, sessionID,
		events.SessionInvalidatedPayload{Reason: "unauthorized"})
	return nil
}

// Credential returns the raw stored credential for attaching to backend
// calls. The boolean is false when the session holds none.
func (m *Manager) Credential(ctx context.Context, sessionID string) (string, bool) {
	credential, err := m.creds.Get(ctx, sessionID)
	if err != nil {
		return "", false
	}
	return credential, true
}

func (m *Manager) publish(ctx context.Context, eventType events.EventType, sessionID string, payload interface{}) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
