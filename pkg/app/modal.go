package app

import (
	"sync"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/nav"
)

// AuthModal is the login/register overlay. It renders on top of the
// current page by attaching an overlay element to the document root,
// never into the content mount, which belongs to the page pipeline.
type AuthModal struct {
	mu      sync.Mutex
	doc     *dom.Document
	history *nav.MemoryHistory
	overlay *dom.Element
	mode    nav.ModalMode
	open    bool
}

// NewAuthModal creates a closed modal over doc. history is used for
// Close(returnToPrevious=true), which steps back below the modal path.
func NewAuthModal(doc *dom.Document, history *nav.MemoryHistory) *AuthModal {
	return &AuthModal{doc: doc, history: history}
}

// Open implements nav.AuthModal.
func (m *AuthModal) Open(mode nav.ModalMode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open && m.mode == mode {
		return
	}
	if m.overlay == nil {
		m.overlay = dom.NewElement("div", "auth-modal")
		m.overlay.SetAttr("role", "dialog")
		m.overlay.SetAttr("aria-modal", "true")
	}
	m.overlay.Clear()
	heading := dom.NewElement("h2", "")
	if mode == nav.ModalRegister {
		heading.SetText("Create account")
	} else {
		heading.SetText("Log in")
	}
	m.overlay.Append(heading)

	m.doc.Root().Append(m.overlay)
	m.mode = mode
	m.open = true
}

// Close implements nav.AuthModal.
func (m *AuthModal) Close(returnToPrevious bool) {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	m.overlay.Clear()
	m.overlay.Detach()
	m.open = false
	m.mu.Unlock()

	if returnToPrevious && m.history != nil {
		m.history.Back()
	}
}

// IsOpen reports the overlay state.
func (m *AuthModal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Mode returns the last opened mode.
func (m *AuthModal) Mode() nav.ModalMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}
