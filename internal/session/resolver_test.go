package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/health-gateway/internal/domain"
)

var resolverNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testResolver() *Resolver {
	return &Resolver{
		adminUsername: "healthadmin",
		adminEmail:    "admin@healthplatform.com",
		now:           func() time.Time { return resolverNow },
	}
}

func boolPtr(v bool) *bool { return &v }

func TestResolver_NilClaims(t *testing.T) {
	assert.Equal(t, domain.RoleNone, testResolver().Resolve(nil))
}

func TestResolver_ExpiredBeatsEverything(t *testing.T) {
	claims := &domain.Claims{
		Username:  "healthadmin",
		Email:     "admin@healthplatform.com",
		IsStaff:   boolPtr(true),
		ExpiresAt: resolverNow.Add(-time.Minute),
	}
	assert.Equal(t, domain.RoleNone, testResolver().Resolve(claims))
}

func TestResolver_StaffFlagWins(t *testing.T) {
	claims := &domain.Claims{
		Username:  "just-a-patient",
		IsStaff:   boolPtr(true),
		ExpiresAt: resolverNow.Add(time.Hour),
	}
	assert.Equal(t, domain.RoleAdmin, testResolver().Resolve(claims))
}

func TestResolver_ExplicitFalseFlagSuppressesIdentifierMatch(t *testing.T) {
	claims := &domain.Claims{
		Username: "healthadmin",
		IsStaff:  boolPtr(false),
	}
	assert.Equal(t, domain.RolePatient, testResolver().Resolve(claims))
}

func TestResolver_IdentifierFallback(t *testing.T) {
	cases := map[string]struct {
		claims *domain.Claims
		want   domain.Role
	}{
		"username match": {
			claims: &domain.Claims{Username: "healthadmin"},
			want:   domain.RoleAdmin,
		},
		"email match": {
			claims: &domain.Claims{Email: "admin@healthplatform.com"},
			want:   domain.RoleAdmin,
		},
		"role claim": {
			claims: &domain.Claims{Username: "whoever", Role: "admin"},
			want:   domain.RoleAdmin,
		},
		"case sensitive": {
			claims: &domain.Claims{Username: "HealthAdmin"},
			want:   domain.RolePatient,
		},
		"ordinary user": {
			claims: &domain.Claims{Username: "pat", Email: "pat@example.com"},
			want:   domain.RolePatient,
		},
		"no expiry is not expired": {
			claims: &domain.Claims{Username: "pat"},
			want:   domain.RolePatient,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, testResolver().Resolve(tc.claims))
		})
	}
}
