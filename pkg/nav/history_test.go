package nav

import "testing"

func TestMemoryHistoryPushReplace(t *testing.T) {
	h := NewMemoryHistory("/")

	h.Push("/calendar")
	if h.Current() != "/calendar" || h.Len() != 2 {
		t.Fatalf("after push: current=%q len=%d", h.Current(), h.Len())
	}

	h.Replace("/login")
	if h.Current() != "/login" || h.Len() != 2 {
		t.Fatalf("after replace: current=%q len=%d", h.Current(), h.Len())
	}
}

func TestMemoryHistoryBackForward(t *testing.T) {
	h := NewMemoryHistory("/")
	var popped []string
	h.SetPopHandler(func(target string) { popped = append(popped, target) })

	h.Push("/a")
	h.Push("/b")

	h.Back()
	h.Back()
	h.Forward()

	want := []string{"/a", "/", "/a"}
	if len(popped) != len(want) {
		t.Fatalf("popped %v, want %v", popped, want)
	}
	for i := range want {
		if popped[i] != want[i] {
			t.Fatalf("popped %v, want %v", popped, want)
		}
	}

	// Pops never change the stack size.
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
}

func TestMemoryHistoryBackAtOldestEntry(t *testing.T) {
	h := NewMemoryHistory("/")
	called := false
	h.SetPopHandler(func(string) { called = true })

	h.Back()
	if called {
		t.Error("back at the oldest entry should not fire the pop handler")
	}
}

func TestMemoryHistoryPushTruncatesForward(t *testing.T) {
	h := NewMemoryHistory("/")
	h.Push("/a")
	h.Push("/b")
	h.Back() // at /a
	h.Push("/c")

	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}
	if h.Current() != "/c" {
		t.Fatalf("current = %q, want /c", h.Current())
	}
	// /b is gone; forward stays put.
	h.Forward()
	if h.Current() != "/c" {
		t.Errorf("forward landed on %q", h.Current())
	}
}
