// Package dom models the slice of the browser DOM the navigation shell
// touches: an element tree with stable node identity, the document title,
// keyboard focus, and an ARIA live region for screen-reader announcements.
//
// The shell never talks to a real browser directly; it mutates this model
// through the Document type. A WASM binding mirrors the same operations
// onto real nodes, and tests observe the model as-is.
package dom

import "strings"

// Element is a mutable node in the element tree.
//
// Identity is pointer identity: reconciliation guarantees (such as "the
// sidebar node survives a same-mode navigation") are observable by
// comparing pointers, not serialized markup.
type Element struct {
	Tag   string
	ID    string
	Attrs map[string]string
	Text  string

	children []*Element
	parent   *Element
}

// NewElement creates a detached element.
func NewElement(tag, id string) *Element {
	return &Element{Tag: tag, ID: id, Attrs: make(map[string]string)}
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
}

// Attr returns an attribute value, or "" if unset.
func (e *Element) Attr(key string) string {
	return e.Attrs[key]
}

// SetText replaces the element's text content.
func (e *Element) SetText(text string) {
	e.Text = text
}

// Append attaches children to the end of the element.
// An element already attached elsewhere is moved, not duplicated.
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = e
		e.children = append(e.children, c)
	}
}

// Clear removes all children and text content, leaving the node itself
// attached. This is the "mount point is cleared before render" guarantee.
func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
	e.Text = ""
}

// Children returns the current child list. Callers must not mutate it.
func (e *Element) Children() []*Element {
	return e.children
}

// Parent returns the parent element, or nil for a detached node.
func (e *Element) Parent() *Element {
	return e.parent
}

// Detach removes the element from its parent, if any. The element and
// its subtree stay intact and can be re-appended elsewhere.
func (e *Element) Detach() {
	if e.parent != nil {
		e.parent.remove(e)
	}
}

// Find returns the first element in the subtree with the given id.
func (e *Element) Find(id string) *Element {
	if e.ID == id {
		return e
	}
	for _, c := range e.children {
		if hit := c.Find(id); hit != nil {
			return hit
		}
	}
	return nil
}

// TextContent returns the concatenated text of the subtree.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.collectText(&b)
	return b.String()
}

func (e *Element) collectText(b *strings.Builder) {
	b.WriteString(e.Text)
	for _, c := range e.children {
		c.collectText(b)
	}
}

func (e *Element) remove(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}
