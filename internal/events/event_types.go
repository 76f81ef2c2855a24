package events

import (
	"time"

	"github.com/spec-kit/health-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionLogin       EventType = "session_login"
	EventSessionLogout      EventType = "session_logout"
	EventSessionInvalidated EventType = "session_invalidated"
)

// Event represents a session lifecycle event emitted by the manager.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionLoginPayload payload.
type SessionLoginPayload struct {
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role"`
}

// SessionInvalidatedPayload payload.
type SessionInvalidatedPayload struct {
	// Reason is "unauthorized" for 401-driven invalidation and
	// "decode_failure" when a stored credential could not be decoded.
	Reason string `json:"reason"`
}
