package guard

import (
	"strings"

	"github.com/spec-kit/health-gateway/internal/domain"
)

// Well-known navigation paths.
const (
	PathLanding        = "/"
	PathAbout          = "/about"
	PathLogin          = "/login"
	PathRegister       = "/register"
	PathDashboard      = "/dashboard"
	PathQuestionnaire  = "/questionnaire"
	PathAdminDashboard = "/admin/dashboard"
	PathAdminReview    = "/admin/review/:id"
)

// Route names surfaced in render decisions.
const (
	RouteLanding        = "landing"
	RouteAbout          = "about"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteDashboard      = "dashboard"
	RouteQuestionnaire  = "questionnaire"
	RouteAdminDashboard = "admin_dashboard"
	RouteAdminReview    = "admin_review"
	RouteNotFound       = "not_found"
)

// DefaultRoutes returns the gateway's navigation table.
func DefaultRoutes() []domain.Route {
	return []domain.Route{
		{Name: RouteLanding, Path: PathLanding, Access: domain.AccessPublic},
		{Name: RouteAbout, Path: PathAbout, Access: domain.AccessPublic},
		{Name: RouteLogin, Path: PathLogin, Access: domain.AccessAuthOnly},
		{Name: RouteRegister, Path: PathRegister, Access: domain.AccessAuthOnly},
		{Name: RouteDashboard, Path: PathDashboard, Access: domain.AccessPatient},
		{Name: RouteQuestionnaire, Path: PathQuestionnaire, Access: domain.AccessPatient},
		{Name: RouteAdminDashboard, Path: PathAdminDashboard, Access: domain.AccessAdmin},
		{Name: RouteAdminReview, Path: PathAdminReview, Access: domain.AccessAdmin},
	}
}

// Guard decides, per navigation, whether a screen renders or redirects. The
// decision is synchronous and total: exactly one outcome per path. It is a UX
// convenience only; the backend re-authorizes every API call regardless.
type Guard struct {
	routes []domain.Route
}

// New builds a guard over the given route table, defaulting to DefaultRoutes.
func New(routes ...domain.Route) *Guard {
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}
	return &Guard{routes: routes}
}

// Authorize maps (path, session state) to a render or redirect decision.
func (g *Guard) Authorize(path string, state domain.State) domain.Decision {
	route, ok := g.match(path)
	if !ok {
		return domain.Render(RouteNotFound)
	}

	switch route.Access {
	case domain.AccessPublic:
		return domain.Render(route.Name)

	case domain.AccessAuthOnly:
		// A present-but-unusable credential (role none) still renders the
		// auth screens; redirecting it to a dashboard would bounce straight
		// back to login.
		if state.IsLoggedIn && state.Role != domain.RoleNone {
			return domain.RedirectTo(DashboardFor(state.Role))
		}
		return domain.Render(route.Name)

	case domain.AccessPatient:
		if state.IsLoggedIn && (state.Role == domain.RolePatient || state.Role == domain.RoleAdmin) {
			return domain.Render(route.Name)
		}
		return domain.RedirectTo(PathLogin)

	case domain.AccessAdmin:
		if !state.IsLoggedIn {
			return domain.RedirectTo(PathLogin)
		}
		if state.Role != domain.RoleAdmin {
			return domain.RedirectTo(PathDashboard)
		}
		return domain.Render(route.Name)
	}

	return domain.Render(RouteNotFound)
}

// DashboardFor returns the landing dashboard for a role.
func DashboardFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return PathAdminDashboard
	}
	return PathDashboard
}

func (g *Guard) match(path string) (domain.Route, bool) {
	for _, route := range g.routes {
		if matchPath(route.Path, path) {
			return route, true
		}
	}
	return domain.Route{}, false
}

// matchPath compares segment by segment; ":name" segments match any single
// non-empty segment.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}
