package session

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/health-gateway/internal/domain"
)

// tokenClaims mirrors the payload shape the upstream backend signs into its
// access tokens. Any subset of the fields may be present.
type tokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  *bool  `json:"is_staff"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Decoder extracts claims from a credential's payload segment WITHOUT
// verifying the signature. The result is a display hint only; the backend
// validates the credential cryptographically on every call it receives.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder builds a decoder.
func NewDecoder() *Decoder {
	return &Decoder{parser: jwt.NewParser()}
}

// Decode parses the credential payload. It fails on anything that is not
// three dot-separated segments with a base64url JSON payload. Expired tokens
// still decode; expiry is the resolver's concern.
func (d *Decoder) Decode(credential string) (*domain.Claims, error) {
	parsed := &tokenClaims{}
	if _, _, err := d.parser.ParseUnverified(credential, parsed); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}

	claims := &domain.Claims{
		UserID:   parsed.UserID,
		Username: parsed.Username,
		Email:    parsed.Email,
		IsStaff:  parsed.IsStaff,
		Role:     parsed.Role,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, nil
}
