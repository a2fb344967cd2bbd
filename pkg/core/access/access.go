// Package access implements the navigation/access state machine: given the
// session state, the member's role and approval, and a target route, it
// decides whether the navigation proceeds or where it redirects. The machine
// is pure and is re-evaluated on every route change and every session or
// profile change; nothing is cached.
package access

import "github.com/bibnhs/chapter-portal/pkg/core/model"

// State is the session's position in the authentication lifecycle
type State int

const (
	// Unauthenticated means no session exists
	Unauthenticated State = iota
	// Authenticating means a session exists but the profile has not loaded yet
	Authenticating
	// Unapproved means the profile loaded with approved=false
	Unapproved
	// Approved means the profile loaded with approved=true
	Approved
)

// Route identifies a navigable view
type Route string

const (
	RouteLogin      Route = "login"
	RouteSignup     Route = "signup"
	RoutePending    Route = "pending"
	RouteDashboard  Route = "dashboard"
	RouteMyHours    Route = "my-hours"
	RouteCalendar   Route = "calendar"
	RouteSettings   Route = "settings"
	RouteCatalogue  Route = "catalogue"
	RouteSignatures Route = "signatures"
	RouteUsers      Route = "users"
)

// Decision is the outcome of resolving a navigation
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectPending
	RedirectDashboard
)

// requiredRoles maps role-gated routes to the roles that may enter them.
// Routes absent from the map are open to every approved role.
var requiredRoles = map[Route][]model.Role{
	RouteCatalogue:  {model.RoleLeader, model.RoleAdmin},
	RouteSignatures: {model.RoleAdmin},
	RouteUsers:      {model.RoleAdmin},
}

func roleAllowed(route Route, role model.Role) bool {
	roles, gated := requiredRoles[route]
	if !gated {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func publicRoute(route Route) bool {
	return route == RouteLogin || route == RouteSignup
}

// Resolve decides whether a navigation to route proceeds for the given
// session state and role. The role parameter is only consulted in the
// Approved state.
func Resolve(state State, role model.Role, route Route) Decision {
	switch state {
	case Unauthenticated:
		if publicRoute(route) {
			return Allow
		}
		return RedirectLogin

	case Authenticating:
		// Profile not loaded yet; only the pending screen renders while we
		// wait, everything else holds at login.
		if publicRoute(route) || route == RoutePending {
			return Allow
		}
		return RedirectLogin

	case Unapproved:
		// An unapproved member reaches nothing but the pending screen (and
		// sign-out, which is an action rather than a route).
		if route == RoutePending {
			return Allow
		}
		return RedirectPending

	case Approved:
		if publicRoute(route) || route == RoutePending {
			return RedirectDashboard
		}
		if !roleAllowed(route, role) {
			return RedirectDashboard
		}
		return Allow
	}

	return RedirectLogin
}

// StateFor derives the session state from what is known about the session
// and profile. A nil profile with a live session means the profile is still
// loading (or missing), which keeps the machine in Authenticating.
func StateFor(hasSession bool, profile *model.Profile) State {
	switch {
	case !hasSession:
		return Unauthenticated
	case profile == nil:
		return Authenticating
	case !profile.Approved:
		return Unapproved
	default:
		return Approved
	}
}
