package dto

import "github.com/spec-kit/health-gateway/internal/domain"

// SessionResponse is the session view attached to page envelopes.
type SessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Role     string `json:"role"`
	Username string `json:"username,omitempty"`
}

// PageResponse is the render envelope for a guarded navigation.
type PageResponse struct {
	Page    string          `json:"page"`
	Session SessionResponse `json:"session"`
}

// SessionFromState converts the derived session state for the wire.
func SessionFromState(state domain.State) SessionResponse {
	return SessionResponse{
		LoggedIn: state.IsLoggedIn,
		Role:     string(state.Role),
		Username: state.Username,
	}
}
