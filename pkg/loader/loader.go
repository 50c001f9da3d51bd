// Package loader resolves a route's page module on first use.
//
// A page module is the Go analogue of a dynamically imported chunk: an
// opaque unit exposing a single Render capability. Loading may take
// observable wall-clock time and may fail; failures are isolated here so
// a broken chunk never wedges the navigation pipeline.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
)

// Module is a lazily loaded page module. Render draws the page body into
// the mount element. The mount is cleared before Render is invoked, and
// Render may block on its own data fetching.
type Module interface {
	Render(ctx context.Context, mount *dom.Element) error
}

// ModuleFunc adapts a render function to Module.
type ModuleFunc func(ctx context.Context, mount *dom.Element) error

// Render implements Module.
func (f ModuleFunc) Render(ctx context.Context, mount *dom.Element) error {
	return f(ctx, mount)
}

// LoaderFunc produces a route's module. It is invoked at most once per
// successful load; the result is cached for the lifetime of the shell.
type LoaderFunc func(ctx context.Context) (Module, error)

// Static wraps an already-present module in a LoaderFunc. Used for the
// eagerly bundled routes (home, not-found).
func Static(m Module) LoaderFunc {
	return func(context.Context) (Module, error) {
		return m, nil
	}
}

// Loader memoizes module loads per route key.
//
// Successful loads are cached (one module per route). Failed loads are
// not: the next navigation to the same route retries the import, which
// is what a user expects after a transient chunk error.
type Loader struct {
	mu    sync.Mutex
	cache map[string]Module
}

// New creates an empty loader.
func New() *Loader {
	return &Loader{cache: make(map[string]Module)}
}

// Load resolves the module for key via fn, consulting the cache first.
func (l *Loader) Load(ctx context.Context, key string, fn LoaderFunc) (Module, error) {
	l.mu.Lock()
	if m, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return m, nil
	}
	l.mu.Unlock()

	// Deliberately load outside the lock: a slow chunk must not block
	// an unrelated route's load, and a superseded navigation's load may
	// still complete and warm the cache.
	m, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if m == nil {
		return nil, fmt.Errorf("load %s: loader returned no module", key)
	}

	l.mu.Lock()
	l.cache[key] = m
	l.mu.Unlock()
	return m, nil
}

// Loaded reports whether key has a cached module.
func (l *Loader) Loaded(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[key]
	return ok
}
