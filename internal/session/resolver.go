package session

import (
	"time"

	"github.com/spec-kit/health-gateway/internal/config"
	"github.com/spec-kit/health-gateway/internal/domain"
)

const adminRoleClaim = "admin"

// Resolver derives a coarse role from decoded claims. Precedence: expired
// credentials resolve to none regardless of other claims; an explicit staff
// flag wins when present; otherwise the role claim and the configured admin
// identifiers are matched by exact, case-sensitive equality; everything else
// is a patient.
type Resolver struct {
	adminUsername string
	adminEmail    string
	now           func() time.Time
}

// NewResolver builds a resolver using the configured admin identifiers.
func NewResolver(cfg config.AuthConfig) *Resolver {
	return &Resolver{
		adminUsername: cfg.AdminUsername,
		adminEmail:    cfg.AdminEmail,
		now:           time.Now,
	}
}

// Resolve maps claims to a role. Nil claims resolve to none.
func (r *Resolver) Resolve(claims *domain.Claims) domain.Role {
	if claims == nil {
		return domain.RoleNone
	}
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(r.now()) {
		return domain.RoleNone
	}
	if claims.IsStaff != nil {
		if *claims.IsStaff {
			return domain.RoleAdmin
		}
		// explicit server-asserted flag wins over identifier matching
		return domain.RolePatient
	}
	if claims.Role == adminRoleClaim {
		return domain.RoleAdmin
	}
	if r.adminUsername != "" && claims.Username == r.adminUsername {
		return domain.RoleAdmin
	}
	if r.adminEmail != "" && claims.Email == r.adminEmail {
		return domain.RoleAdmin
	}
	return domain.RolePatient
}
