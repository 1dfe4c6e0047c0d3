// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the client-side session: the bearer token, the cached
// user profile, and their durable persistence.
//
// The Store is the single source of truth for the token at runtime; durable
// storage is only its backstop and is written through a subscribed persister
// (see Attach). Whether the session is authenticated is always derived from
// the token, never stored separately, so the two cannot diverge.
package session

import (
	"context"
	"sync"
)

// Profile is the server-owned projection of the authenticated user.
// The client holds a cached copy only, refreshed on demand, never authoritative.
type Profile struct {
	ID        int64  `json:"pk"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the best human-readable identifier for the profile.
func (p *Profile) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.Email != "":
		return p.Email
	default:
		return p.Username
	}
}

// Change describes a session transition delivered to subscribers.
type Change struct {
	Token         string
	Authenticated bool
}

// ProfileSource fetches the authenticated user's profile from the backend.
// The concrete implementation lives in internal/auth; the indirection keeps
// the store free of HTTP concerns and mockable in tests.
type ProfileSource interface {
	FetchProfile(ctx context.Context) (*Profile, error)
}

// Store is an observable container for the current session.
// All mutation goes through its methods; fields are never assigned directly,
// which is what keeps the authenticated==(token!=nil) invariant intact.
type Store struct {
	mu       sync.RWMutex
	token    string
	user     *Profile
	loading  bool
	err      error
	subs     []func(Change)
	authLost []func()
}

// NewStore creates an empty, unauthenticated session store.
// Each caller constructs its own instance; there is no package-level singleton.
func NewStore() *Store {
	return &Store{}
}

// Login stores a token obtained from a successful authentication response and
// clears any prior profile-fetch error. Empty tokens are ignored.
func (s *Store) Login(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	s.token = token
	s.err = nil
	subs := append([]func(Change){}, s.subs...)
	s.mu.Unlock()

	notify(subs, Change{Token: token, Authenticated: true})
}

// Logout clears the token and cached profile. Calling it on an already
// logged-out store is a no-op: subscribers are not notified again.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.token == "" && s.user == nil {
		s.mu.Unlock()
		return
	}
	s.reset()
	subs := append([]func(Change){}, s.subs...)
	s.mu.Unlock()

	notify(subs, Change{})
}

// Invalidate handles session expiry signalled by the backend (a 401 on an
// authenticated request). It reports true only on the authenticated to
// unauthenticated edge, so racing expiries collapse into a single transition
// and auth-lost handlers fire exactly once.
func (s *Store) Invalidate() bool {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false
	}
	s.reset()
	subs := append([]func(Change){}, s.subs...)
	lost := append([]func(){}, s.authLost...)
	s.mu.Unlock()

	notify(subs, Change{})
	for _, fn := range lost {
		fn()
	}
	return true
}

// reset clears session state. Caller must hold s.mu.
func (s *Store) reset() {
	s.token = ""
	s.user = nil
	s.loading = false
	s.err = nil
}

// Token returns the current token, or the empty string when unauthenticated.
// Safe to call from request interceptors outside any command flow.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a session token is present.
// This is a pure function of the token by construction.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// User returns the cached profile, which may lag the token state.
func (s *Store) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserState returns the cached profile together with the transient fetch status.
func (s *Store) UserState() (user *Profile, loading bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.loading, s.err
}

// FetchUser refreshes the cached profile from src.
//
// Without a token this is a no-op, not an error: the call is typically fired
// right after a navigation and the session may have been torn down in between.
// Failures are stored rather than returned; callers observe them through
// UserState. Overlapping calls are tolerated, last to resolve wins.
func (s *Store) FetchUser(ctx context.Context, src ProfileSource) {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	user, err := src.FetchProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		// Logged out while the fetch was in flight; drop the stale result.
		return
	}
	s.loading = false
	if err != nil {
		s.err = err
		return
	}
	s.user = user
	s.err = nil
}

// Subscribe registers fn to observe session transitions. Subscribers are
// invoked after the transition is applied, outside the store's lock.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// OnAuthLost registers fn to run when the backend expires the session.
// Handlers run at most once per expiry regardless of how many requests
// observe the stale token.
func (s *Store) OnAuthLost(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authLost = append(s.authLost, fn)
}

// restore seeds the token during hydration without notifying subscribers,
// so the persister does not echo the value it was just read from.
func (s *Store) restore(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func notify(subs []func(Change), ch Change) {
	for _, fn := range subs {
		fn(ch)
	}
}
