// Package shell owns the root DOM skeleton of the application frame.
//
// The skeleton comes in two layouts: the public frame (nav bar, content,
// footer) and the authenticated app frame (top bar, sidebar, content,
// bottom nav). Which one is installed is the layout mode, and it is
// derived from exactly one input: whether the session is logged in.
//
// The central correctness property of this package is the split between
// Reconcile and RefreshChrome. Reconcile rebuilds the skeleton only on a
// mode transition and is a strict no-op otherwise, so an in-flight page
// render is never destroyed under itself. RefreshChrome re-renders the
// chrome into the existing containers and never touches the skeleton;
// cosmetic updates (language switch, theme, active link) go through it.
package shell

import (
	"log/slog"
	"sync"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
)

// LayoutMode identifies which root skeleton is installed.
type LayoutMode uint8

const (
	// ModeNone means no skeleton has been installed yet.
	ModeNone LayoutMode = iota

	// ModePublic is the logged-out frame: nav bar, content, footer.
	ModePublic

	// ModeAuthenticated is the app frame: top bar, sidebar, content,
	// bottom nav.
	ModeAuthenticated
)

// String returns the mode name.
func (m LayoutMode) String() string {
	switch m {
	case ModePublic:
		return "public"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return "none"
	}
}

// ModeFor derives the layout mode from a session snapshot.
func ModeFor(snap session.Snapshot) LayoutMode {
	if snap.LoggedIn {
		return ModeAuthenticated
	}
	return ModePublic
}

// Slot names a chrome container in the skeleton.
type Slot string

const (
	SlotNavBar    Slot = "navbar"    // public
	SlotFooter    Slot = "footer"    // public
	SlotTopBar    Slot = "topbar"    // authenticated
	SlotSideBar   Slot = "sidebar"   // authenticated
	SlotBottomNav Slot = "bottomnav" // authenticated
)

// Chrome renders navigation chrome into its slot container. Renders must
// be idempotent: RefreshChrome clears the container and calls Render
// again in place.
type Chrome interface {
	Render(mount *dom.Element, snap session.Snapshot, activePath string)
}

// ChromeFunc adapts a function to Chrome.
type ChromeFunc func(mount *dom.Element, snap session.Snapshot, activePath string)

// Render implements Chrome.
func (f ChromeFunc) Render(mount *dom.Element, snap session.Snapshot, activePath string) {
	f(mount, snap, activePath)
}

// Reconciler tracks the installed layout mode and owns skeleton
// transitions. It is safe for use from multiple goroutines, though the
// navigation controller already serializes its calls.
type Reconciler struct {
	doc    *dom.Document
	logger *slog.Logger

	mu         sync.Mutex
	mode       LayoutMode
	mount      *dom.Element // content mount point of the installed skeleton
	slots      map[Slot]*dom.Element
	chrome     map[Slot]Chrome
	activePath string
	rebuilds   int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithChrome registers a chrome component for a slot.
func WithChrome(slot Slot, c Chrome) Option {
	return func(r *Reconciler) {
		r.chrome[slot] = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// NewReconciler creates a reconciler over the given document. No
// skeleton is installed until the first Reconcile call.
func NewReconciler(doc *dom.Document, opts ...Option) *Reconciler {
	r := &Reconciler{
		doc:    doc,
		logger: slog.Default(),
		chrome: make(map[Slot]Chrome),
		slots:  make(map[Slot]*dom.Element),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the installed layout mode.
func (r *Reconciler) Mode() LayoutMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Mount returns the content mount point, or nil before the first
// Reconcile installed a skeleton.
func (r *Reconciler) Mount() *dom.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mount
}

// EnsureMount returns the content mount point, installing the skeleton
// for snap first if none is installed yet. Unlike Reconcile it never
// rebuilds an existing skeleton, so callers can safely obtain the mount
// mid-pipeline without triggering a premature mode transition.
func (r *Reconciler) EnsureMount(snap session.Snapshot) *dom.Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeNone {
		r.installSkeleton(ModeFor(snap))
		r.rebuilds++
		r.renderChrome(snap)
	}
	return r.mount
}

// Rebuilds returns how many times the skeleton has been rebuilt.
func (r *Reconciler) Rebuilds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebuilds
}

// SetActivePath records the path chrome components highlight as active.
// It does not re-render; pair it with RefreshChrome.
func (r *Reconciler) SetActivePath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activePath = path
}

// Reconcile installs the skeleton matching snap's layout mode.
//
// If the derived mode equals the installed mode this is a no-op: the
// content mount and every chrome container keep their node identity.
// On a transition the root's children are replaced with the new
// skeleton, the live region is reattached, and all chrome for the new
// mode renders into its fresh containers. Returns true when a rebuild
// happened.
func (r *Reconciler) Reconcile(snap session.Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	mode := ModeFor(snap)
	if mode == r.mode {
		return false
	}

	from := r.mode
	r.installSkeleton(mode)
	r.rebuilds++
	r.renderChrome(snap)

	r.logger.Debug("shell: skeleton rebuilt",
		"from", from.String(),
		"to", mode.String(),
		"rebuilds", r.rebuilds,
	)
	return true
}

// RefreshChrome re-renders the chrome of the installed skeleton in
// place. It never rebuilds the skeleton and never touches the content
// mount, regardless of what snap says; mode transitions are strictly
// Reconcile's job.
func (r *Reconciler) RefreshChrome(snap session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode == ModeNone {
		return
	}
	r.renderChrome(snap)
}

// installSkeleton replaces the root's children with the skeleton for
// mode. The content mount node is carried over from the previous
// skeleton when one exists: a mode transition immediately after a page
// render must not throw that render away, and the mount element keeps
// its identity for anyone holding a reference. Caller holds r.mu.
func (r *Reconciler) installSkeleton(mode LayoutMode) {
	root := r.doc.Root()
	root.Clear()
	r.slots = make(map[Slot]*dom.Element)

	content := r.mount
	if content == nil {
		content = dom.NewElement("main", "content")
		content.SetAttr("tabindex", "-1")
	}

	switch mode {
	case ModeAuthenticated:
		r.addSlot(root, "header", SlotTopBar)
		r.addSlot(root, "aside", SlotSideBar)
		root.Append(content)
		r.addSlot(root, "nav", SlotBottomNav)
	default:
		r.addSlot(root, "header", SlotNavBar)
		root.Append(content)
		r.addSlot(root, "footer", SlotFooter)
	}

	r.doc.ReattachLiveRegion()
	r.mount = content
	r.mode = mode
}

// renderChrome clears each installed slot and renders its component.
// Caller holds r.mu.
func (r *Reconciler) renderChrome(snap session.Snapshot) {
	for slot, container := range r.slots {
		c, ok := r.chrome[slot]
		if !ok {
			continue
		}
		container.Clear()
		c.Render(container, snap, r.activePath)
	}
}

func (r *Reconciler) addSlot(root *dom.Element, tag string, slot Slot) {
	el := dom.NewElement(tag, string(slot))
	root.Append(el)
	r.slots[slot] = el
}
