package dom

// Document is the headless stand-in for the browser document.
//
// It owns the root element (the <body> equivalent), the document title,
// the focused element, and the ARIA live region the shell announces
// navigations into.
type Document struct {
	root    *Element
	title   string
	focused *Element
	live    *Element
}

// NewDocument creates a document with an empty root and a polite live
// region attached to it.
func NewDocument() *Document {
	root := NewElement("body", "root")
	live := NewElement("div", "aria-live")
	live.SetAttr("aria-live", "polite")
	live.SetAttr("role", "status")
	root.Append(live)
	return &Document{root: root, live: live}
}

// Root returns the root element. The shell reconciler replaces its
// children on a layout-mode transition; nothing else touches it.
func (d *Document) Root() *Element {
	return d.root
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.title
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.title = title
}

// Focus moves keyboard focus to el. A nil element blurs.
func (d *Document) Focus(el *Element) {
	d.focused = el
}

// Focused returns the currently focused element, or nil.
func (d *Document) Focused() *Element {
	return d.focused
}

// Announce writes text into the live region so assistive technology
// reads it. The live region survives skeleton rebuilds.
func (d *Document) Announce(text string) {
	d.live.SetText(text)
}

// LiveRegion returns the live region element.
func (d *Document) LiveRegion() *Element {
	return d.live
}

// ReattachLiveRegion puts the live region back under the root. Called by
// the shell after a skeleton rebuild replaced the root's children.
func (d *Document) ReattachLiveRegion() {
	d.root.Append(d.live)
}
