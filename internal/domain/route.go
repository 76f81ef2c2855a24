package domain

// AccessLevel is the minimum session predicate a route requires.
type AccessLevel string

const (
	// AccessPublic routes always render.
	AccessPublic AccessLevel = "PUBLIC"
	// AccessAuthOnly routes (login/register) render only for visitors
	// without a usable session.
	AccessAuthOnly AccessLevel = "AUTH_ONLY"
	// AccessPatient routes require a logged-in patient or admin.
	AccessPatient AccessLevel = "PATIENT"
	// AccessAdmin routes require a logged-in admin.
	AccessAdmin AccessLevel = "ADMIN"
)

// Route is a named screen with its access requirement. Path segments of the
// form ":name" match any single segment.
type Route struct {
	Name   string
	Path   string
	Access AccessLevel
}

// Action discriminates guard outcomes.
type Action string

const (
	ActionRender   Action = "RENDER"
	ActionRedirect Action = "REDIRECT"
)

// Decision is the outcome of authorizing one navigation. Exactly one of
// Route (when rendering) or Target (when redirecting) is meaningful.
type Decision struct {
	Action Action
	Route  string
	Target string
}

// Render builds a render decision for the named route.
func Render(routeName string) Decision {
	return Decision{Action: ActionRender, Route: routeName}
}

// RedirectTo builds a redirect decision toward the given path.
func RedirectTo(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}
