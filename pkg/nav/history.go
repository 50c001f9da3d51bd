package nav

import "sync"

// History is the slice of the browser History API the controller uses.
//
// Push and Replace mutate the history stack only; navigation is the
// controller's job and happens after the stack moved. A popstate-origin
// navigation performs neither; the browser already moved the entry.
type History interface {
	// Push appends a new entry and makes it current.
	Push(target string)

	// Replace swaps the current entry in place.
	Replace(target string)
}

// MemoryHistory is an in-process History with back/forward traversal.
// It backs the headless shell and the tests; a WASM binding delegates
// to window.history instead.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	idx     int
	onPop   func(target string)
}

// NewMemoryHistory creates a history with a single initial entry.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{initial}}
}

// SetPopHandler registers the popstate listener. Back and Forward invoke
// it with the entry they land on.
func (h *MemoryHistory) SetPopHandler(fn func(target string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPop = fn
}

// Push implements History. Entries ahead of the current position are
// discarded, as the browser does.
func (h *MemoryHistory) Push(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.idx+1], target)
	h.idx++
}

// Replace implements History.
func (h *MemoryHistory) Replace(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.idx] = target
}

// Back moves one entry back and fires the pop handler. A no-op at the
// oldest entry.
func (h *MemoryHistory) Back() {
	h.pop(-1)
}

// Forward moves one entry forward and fires the pop handler. A no-op at
// the newest entry.
func (h *MemoryHistory) Forward() {
	h.pop(+1)
}

func (h *MemoryHistory) pop(delta int) {
	h.mu.Lock()
	next := h.idx + delta
	if next < 0 || next >= len(h.entries) {
		h.mu.Unlock()
		return
	}
	h.idx = next
	target := h.entries[h.idx]
	fn := h.onPop
	h.mu.Unlock()

	if fn != nil {
		fn(target)
	}
}

// Current returns the current entry.
func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.idx]
}

// Len returns the number of entries on the stack.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
