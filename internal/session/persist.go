// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import "encoding/json"

// stateRecord is the structured durable record mirroring the runtime session.
// The raw token is persisted alongside it under its own key so either form
// can hydrate a fresh process.
type stateRecord struct {
	State struct {
		Token         string `json:"token"`
		Authenticated bool   `json:"authenticated"`
	} `json:"state"`
}

// Attach hydrates the store from durable storage and installs a persister that
// mirrors every subsequent session transition back into it.
//
// Persistence is deliberately an observer of the store's change notifications
// rather than a side effect inside the mutators: the store's transition logic
// stays pure and the storage backend stays swappable in tests.
//
// Storage that cannot be read hydrates to an unauthenticated session. Access
// is never granted on the basis of absent or unreadable data.
func Attach(s *Store, st Storage) {
	if data, err := st.State(); err == nil && len(data) > 0 {
		var rec stateRecord
		if json.Unmarshal(data, &rec) == nil && rec.State.Token != "" {
			s.restore(rec.State.Token)
		}
	}
	if s.Token() == "" {
		if tok, err := st.Token(); err == nil && tok != "" {
			s.restore(tok)
		}
	}

	s.Subscribe(func(ch Change) {
		if !ch.Authenticated {
			_ = st.Clear()
			return
		}
		_ = st.SetToken(ch.Token)
		var rec stateRecord
		rec.State.Token = ch.Token
		rec.State.Authenticated = true
		if b, err := json.Marshal(rec); err == nil {
			_ = st.SetState(b)
		}
	})
}
