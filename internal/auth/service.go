// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements the imperative authentication actions: login,
// signup, logout and forgot-password. Each action orchestrates the session
// store, the API client and the fetch cache; commands invoke an action and
// only render after it has completed or failed.
package auth

import (
	"context"

	"orbit/cli/internal/api"
	"orbit/cli/internal/fetch"
	"orbit/cli/internal/session"
)

// loginRequest is the credential payload for login and signup.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// keyResponse carries the session token issued by login and signup.
type keyResponse struct {
	Key string `json:"key"`
}

// passwordResetRequest asks the backend to mail a reset link.
type passwordResetRequest struct {
	Email string `json:"email"`
}

// Service centralizes authentication actions against the backend and the
// local session.
type Service struct {
	store  *session.Store
	client *api.Client
	cache  *fetch.Cache
}

// NewService constructs an auth Service. Inputs are assumed pre-validated by
// the command layer; actions never re-check credential format.
func NewService(store *session.Store, client *api.Client, cache *fetch.Cache) *Service {
	return &Service{store: store, client: client, cache: cache}
}

// Login exchanges credentials for a session token and establishes the session.
// On failure the normalized error is returned for form display and the
// session is left untouched.
func (s *Service) Login(ctx context.Context, email, password string) error {
	var out keyResponse
	if err := s.client.Post(ctx, api.PathLogin, loginRequest{Email: email, Password: password}, &out); err != nil {
		return err
	}
	s.store.Login(out.Key)
	return nil
}

// Signup registers a new account. A successful signup also issues a session
// token, so the user is logged in without a second round trip.
func (s *Service) Signup(ctx context.Context, email, password string) error {
	var out keyResponse
	if err := s.client.Post(ctx, api.PathSignup, loginRequest{Email: email, Password: password}, &out); err != nil {
		return err
	}
	s.store.Login(out.Key)
	return nil
}

// Logout tears down the session. The server-side invalidation is best-effort:
// its failure never blocks local cleanup and never reaches the caller. The
// store is cleared and the entire fetch cache purged unconditionally, so a
// subsequent login cannot observe another user's cached responses.
func (s *Service) Logout(ctx context.Context) {
	if s.store.Authenticated() {
		_ = s.client.Post(ctx, api.PathLogout, nil, nil)
	}
	s.store.Logout()
	if s.cache != nil {
		s.cache.PurgeAll()
	}
}

// ForgotPassword requests a password-reset email. No session state changes
// regardless of outcome.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.client.Post(ctx, api.PathPasswordReset, passwordResetRequest{Email: email}, nil)
}

// FetchUser refreshes the cached profile on the session store. Failures are
// stored on the store rather than returned; see session.Store.FetchUser.
func (s *Service) FetchUser(ctx context.Context) {
	s.store.FetchUser(ctx, s)
}

// FetchProfile implements session.ProfileSource against GET auth/user/.
func (s *Service) FetchProfile(ctx context.Context) (*session.Profile, error) {
	var p session.Profile
	if err := s.client.Get(ctx, api.PathUser, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
