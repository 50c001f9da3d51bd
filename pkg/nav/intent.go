// Package nav is the navigation controller of the CarlsCalendar shell.
//
// Every way a screen change can start (an intercepted link click, a
// programmatic push or replace, a browser back/forward) funnels into
// one pipeline: classify modal vs page, apply the auth guard, match the
// route table, lazily load the page module, render it, update title,
// focus and the ARIA announcement, and finally reconcile the shell and
// fire the navigation-completed signal.
//
// Navigations are serialized against the content mount with a
// newest-wins epoch: a navigation that is superseded mid-load or
// mid-render abandons silently and never touches the DOM.
package nav

// Origin identifies what triggered a navigation intent.
type Origin uint8

const (
	OriginLinkClick Origin = iota
	OriginPush
	OriginReplace
	OriginPopState
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case OriginLinkClick:
		return "link-click"
	case OriginPush:
		return "push"
	case OriginReplace:
		return "replace"
	case OriginPopState:
		return "popstate"
	default:
		return "unknown"
	}
}

// Intent is one navigation attempt. It lives for a single pass through
// the pipeline and is never persisted.
type Intent struct {
	// Path is the normalized target pathname.
	Path string

	// Query is the raw query string, without the leading "?".
	Query string

	// Origin is what produced the intent.
	Origin Origin
}

// Outcome classifies how a navigation attempt ended.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeModal      Outcome = "modal"
	OutcomeLoadFailed Outcome = "load-failed"
	OutcomeSuperseded Outcome = "superseded"
)

// Result is delivered to completion listeners after a navigation that
// reached the end of the pipeline. Superseded navigations fire nothing.
type Result struct {
	// NavID correlates the result with logs and trace spans.
	NavID string

	// Path is the finally rendered path (after guard redirects).
	Path string

	// Title is the matched route's title, possibly empty.
	Title string

	// Origin is the intent origin.
	Origin Origin

	// Outcome is OutcomeOK or OutcomeLoadFailed. Modal navigations do
	// not fire the signal; they change no page content.
	Outcome Outcome

	// Redirected is true when the auth guard replaced the target.
	Redirected bool
}
