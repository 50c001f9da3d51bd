package nav

import (
	"context"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/routepath"
)

// ClickEvent is a document-level anchor click, pre-digested by the
// browser binding. The binding resolves the href against the document
// origin and reports the modifier state; the controller decides whether
// the click becomes an in-app navigation.
type ClickEvent struct {
	// Href is the anchor's href attribute as written.
	Href string

	// SameOrigin is true when the resolved target shares the document
	// origin.
	SameOrigin bool

	// Download is true for anchors with a download attribute.
	Download bool

	// NewTab is true for target="_blank" (and friends).
	NewTab bool

	// Modified is true when ctrl, meta, shift or alt was held: the
	// user asked the browser for its own behavior (new tab, save as).
	Modified bool

	// Button is the mouse button, 0 for primary.
	Button int
}

// HandleClick converts an intercepted anchor click into a push
// navigation. It returns true when the click was consumed and the
// binding must call preventDefault; false hands the click back to the
// browser untouched.
func (c *Controller) HandleClick(ctx context.Context, ev ClickEvent) bool {
	if ev.Button != 0 || ev.Modified || ev.NewTab || ev.Download || !ev.SameOrigin {
		return false
	}

	// Absolute URLs and malformed targets stay with the browser.
	res, err := routepath.Normalize(ev.Href)
	if err != nil {
		return false
	}

	c.history.Push(res.String())
	c.navigate(ctx, Intent{Path: res.Path, Query: res.Query, Origin: OriginLinkClick})
	return true
}
