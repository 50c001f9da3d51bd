package nav

// ModalMode selects which face of the auth modal opens.
type ModalMode string

const (
	ModalLogin    ModalMode = "login"
	ModalRegister ModalMode = "register"
)

// AuthModal is the external auth-overlay component. The controller only
// ever opens and closes it; the modal owns its own state transitions.
type AuthModal interface {
	// Open shows the modal in the given mode on top of whatever page
	// is currently rendered.
	Open(mode ModalMode)

	// Close dismisses the modal. When returnToPrevious is true the
	// modal also steps the history back to the entry below the modal
	// path; the controller always passes false.
	Close(returnToPrevious bool)
}

// NopModal is an AuthModal that does nothing, for apps without an auth
// overlay and for tests that don't care.
type NopModal struct{}

func (NopModal) Open(ModalMode) {}
func (NopModal) Close(bool)     {}

// defaultModalPaths is the fixed set of overlay paths. A navigation to
// one of these never touches the content mount: the auth flow is an
// overlay on the visible page, not a page replacement.
func defaultModalPaths() map[string]ModalMode {
	return map[string]ModalMode{
		"/login":    ModalLogin,
		"/register": ModalRegister,
	}
}
