// Package session exposes the authentication snapshot the navigation
// shell reads. The snapshot is owned by the application's session store;
// the shell only ever takes point-in-time reads and never refreshes it
// mid-navigation; staleness is the store's problem, not the router's.
package session

import (
	"context"
	"sync"
)

// Role is the authenticated user's role.
type Role string

const (
	RoleNone   Role = ""
	RoleParent Role = "parent"
	RoleChild  Role = "child"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role (RoleNone is not).
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleChild, RoleAdmin:
		return true
	}
	return false
}

// Snapshot is a point-in-time read of the authentication state.
type Snapshot struct {
	LoggedIn bool
	Role     Role
}

// Store is the session store the shell consumes.
//
// Snapshot must be cheap and non-blocking. Fetch refreshes the store
// from the backend; the navigation controller never calls it.
type Store interface {
	Snapshot() Snapshot
	Fetch(ctx context.Context) error
}

// MemoryStore is an in-process Store. It backs the dev shell and tests;
// a production binding wraps the /api/v1/auth/me endpoint instead.
type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMemoryStore creates a logged-out store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Fetch implements Store. The in-memory store has nothing to refresh.
func (s *MemoryStore) Fetch(ctx context.Context) error {
	return ctx.Err()
}

// SetLoggedIn marks the store authenticated with the given role.
func (s *MemoryStore) SetLoggedIn(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{LoggedIn: true, Role: role}
}

// SetLoggedOut clears the authenticated state.
func (s *MemoryStore) SetLoggedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{}
}
