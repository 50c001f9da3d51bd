// Package router holds the static route table and the first-match-wins
// matcher of the CarlsCalendar shell.
//
// The table is declared once at startup and never mutated. Patterns are
// matched in declaration order; the table is required to end in exactly
// one catch-all route, which makes Match total: every conceivable path
// resolves to some route.
package router

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/loader"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
)

// Route is an immutable route descriptor.
type Route struct {
	// Pattern matches a normalized pathname. Three forms are supported:
	//
	//	"/calendar"          literal
	//	"/schedules/:id"     parametrized segments
	//	"^/uploads/.+$"      regular expression (leading "^")
	//
	// Matching happens against routepath-normalized paths, so patterns
	// never need trailing-slash or duplicate-slash variants.
	Pattern string

	// Loader produces the page module for this route.
	Loader loader.LoaderFunc

	// RequiresAuth gates the route on a logged-in session.
	RequiresAuth bool

	// RequiresRole additionally gates the route on a specific role.
	// RoleNone means any logged-in user. Implies RequiresAuth.
	RequiresRole session.Role

	// Title becomes the document title and the screen-reader
	// announcement after a successful navigation. Empty leaves the
	// document title untouched.
	Title string

	// CatchAll marks the terminal route matching any path. Exactly one
	// route must set it, it must be declared last, and it must not
	// require auth.
	CatchAll bool
}

// Match is a successful table lookup.
type Match struct {
	Route  *Route
	Params map[string]string
}

// Table is the ordered, immutable route table.
type Table struct {
	routes []compiledRoute
}

type compiledRoute struct {
	route    Route
	segments []string       // nil for regex and catch-all routes
	re       *regexp.Regexp // non-nil for "^..." patterns
}

// Table construction errors.
var (
	ErrNoCatchAll      = errors.New("route table has no catch-all route")
	ErrCatchAllNotLast = errors.New("catch-all route must be declared last")
	ErrCatchAllGuarded = errors.New("catch-all route must not require auth")
	ErrDuplicateCatch  = errors.New("route table has more than one catch-all route")
	ErrMissingLoader   = errors.New("route has no loader")
)

// NewTable compiles and validates a route table.
func NewTable(routes []Route) (*Table, error) {
	if len(routes) == 0 {
		return nil, ErrNoCatchAll
	}

	t := &Table{routes: make([]compiledRoute, 0, len(routes))}
	catchAlls := 0

	for i, r := range routes {
		if r.Loader == nil {
			return nil, fmt.Errorf("route %q: %w", r.Pattern, ErrMissingLoader)
		}
		cr := compiledRoute{route: r}

		switch {
		case r.CatchAll:
			catchAlls++
			if i != len(routes)-1 {
				return nil, ErrCatchAllNotLast
			}
			if r.RequiresAuth || r.RequiresRole != session.RoleNone {
				return nil, ErrCatchAllGuarded
			}
		case strings.HasPrefix(r.Pattern, "^"):
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("route %q: %w", r.Pattern, err)
			}
			cr.re = re
		default:
			cr.segments = splitPath(r.Pattern)
		}

		t.routes = append(t.routes, cr)
	}

	if catchAlls == 0 {
		return nil, ErrNoCatchAll
	}
	if catchAlls > 1 {
		return nil, ErrDuplicateCatch
	}
	return t, nil
}

// MustTable is NewTable that panics on error. For static tables declared
// at startup, where a bad table is a programming error.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(fmt.Sprintf("router: invalid route table: %v", err))
	}
	return t
}

// Match returns the first route matching path, in declaration order.
// It is total: the catch-all guarantees a result for every input.
// Match has no side effects and never consults routes past the first hit.
func (t *Table) Match(path string) Match {
	segs := splitPath(path)

	for i := range t.routes {
		cr := &t.routes[i]
		switch {
		case cr.route.CatchAll:
			return Match{Route: &cr.route, Params: map[string]string{}}
		case cr.re != nil:
			if cr.re.MatchString(path) {
				return Match{Route: &cr.route, Params: map[string]string{}}
			}
		default:
			if params, ok := matchSegments(cr.segments, segs); ok {
				return Match{Route: &cr.route, Params: params}
			}
		}
	}

	// Unreachable: NewTable guarantees a trailing catch-all.
	last := &t.routes[len(t.routes)-1]
	return Match{Route: &last.route, Params: map[string]string{}}
}

// CatchAll returns the table's catch-all route.
func (t *Table) CatchAll() *Route {
	return &t.routes[len(t.routes)-1].route
}

// Routes returns the declared routes in order, for diagnostics.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i := range t.routes {
		out[i] = t.routes[i].route
	}
	return out
}

// matchSegments matches concrete path segments against pattern segments,
// extracting ":param" values. Lengths must agree exactly.
func matchSegments(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			params[p[1:]] = path[i]
			continue
		}
		if p != path[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
