// Package auth decides whether a matched route may be shown for the
// current session snapshot.
//
// Authorize is a pure function of (route, snapshot): it performs no IO,
// reads no ambient state, and calling it twice with the same inputs
// yields the same decision. The navigation controller realizes redirect
// decisions as history replaces so the back button never re-enters a
// disallowed route.
package auth

import (
	"errors"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
)

// Guard redirect targets.
const (
	// LoginPath receives unauthenticated users of guarded routes.
	LoginPath = "/login"

	// HomePath receives authenticated users with the wrong role.
	HomePath = "/"
)

// ErrUnauthorized marks a guard failure caused by a missing login.
var ErrUnauthorized = errors.New("unauthorized: authentication required")

// ErrForbidden marks a guard failure caused by an insufficient role.
var ErrForbidden = errors.New("forbidden: insufficient role")

// Decision is the outcome of a guard evaluation.
type Decision struct {
	// Allowed is true when the route may render.
	Allowed bool

	// RedirectTo is the replacement navigation target when not allowed.
	RedirectTo string

	// Reason is ErrUnauthorized or ErrForbidden when not allowed.
	Reason error
}

// Allow is the decision for an unguarded or satisfied route.
var Allow = Decision{Allowed: true}

// Authorize evaluates route access for a point-in-time session snapshot.
//
// Rules, in order:
//   - route requires auth (or a role) and the session is logged out:
//     redirect to LoginPath
//   - route requires a role the session does not hold: redirect to
//     HomePath (admins are not exempt; role gates are exact)
//   - otherwise: allow
func Authorize(route *router.Route, snap session.Snapshot) Decision {
	if route == nil {
		return Allow
	}

	needsAuth := route.RequiresAuth || route.RequiresRole != session.RoleNone
	if needsAuth && !snap.LoggedIn {
		return Decision{RedirectTo: LoginPath, Reason: ErrUnauthorized}
	}
	if route.RequiresRole != session.RoleNone && snap.Role != route.RequiresRole {
		return Decision{RedirectTo: HomePath, Reason: ErrForbidden}
	}
	return Allow
}
