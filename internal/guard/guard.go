// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard gates access to commands that require an authenticated
// session.
//
// The decision is a pure, synchronous function of the session store at the
// moment of evaluation; storage has already been hydrated by then, so no
// intermediate loading state exists. An environment where hydration found
// nothing evaluates to RedirectLogin, never to Allow.
package guard

import "context"

// Decision is the outcome of evaluating a navigation into protected territory.
type Decision int

const (
	// Allow lets the protected command run.
	Allow Decision = iota
	// RedirectLogin sends the user to the login flow instead.
	RedirectLogin
)

// TokenReader exposes the current session token. *session.Store satisfies it.
type TokenReader interface {
	Token() string
}

// Evaluate maps the current token to a decision.
func Evaluate(token string) Decision {
	if token == "" {
		return RedirectLogin
	}
	return Allow
}

// Guard gates a subtree of commands behind a session token.
type Guard struct {
	tokens TokenReader
}

// New creates a guard reading tokens from tr.
func New(tr TokenReader) *Guard {
	return &Guard{tokens: tr}
}

// Check evaluates the guard against the store's state right now.
func (g *Guard) Check(ctx context.Context) Decision {
	return Evaluate(g.tokens.Token())
}
