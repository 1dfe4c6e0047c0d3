// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"

	"github.com/pterm/pterm"

	"orbit/cli/internal/api"
	"orbit/cli/internal/auth"
	"orbit/cli/internal/config"
	"orbit/cli/internal/fetch"
	"orbit/cli/internal/guard"
	"orbit/cli/internal/keychain"
	"orbit/cli/internal/locale"
	"orbit/cli/internal/session"
	"orbit/cli/internal/xdg"
)

// app wires the session store, API client, fetch cache and auth service for
// one command invocation. Every component is constructed here rather than
// living as package globals, so tests can assemble their own instances.
type app struct {
	cfg     config.Config
	store   *session.Store
	client  *api.Client
	cache   *fetch.Cache
	auth    *auth.Service
	guard   *guard.Guard
	locales *locale.Loader
}

// newApp builds the component graph and hydrates the session from durable
// storage. The API client reads the token from the store at send time, and
// its auth-lost handler collapses racing 401s into a single teardown.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store := session.NewStore()
	session.Attach(store, openStorage())

	var cache *fetch.Cache
	client := api.New(cfg.BaseURL, store.Token, api.WithAuthLostHandler(func() {
		if store.Invalidate() {
			cache.PurgeAll()
			pterm.Println()
			pterm.Println("🔒 Your session has expired.")
			pterm.Println("   Run 'orbit login' to sign in again.")
		}
	}))
	cache = fetch.New(client.GetRaw)

	return &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		cache:   cache,
		auth:    auth.NewService(store, client, cache),
		guard:   guard.New(store),
		locales: locale.NewLoader(cache, "en"),
	}, nil
}

// openStorage picks the durable backend for session state: the OS keychain
// when available, the XDG state dir otherwise. When neither is usable the
// session lives only for the process, which hydrates as unauthenticated.
func openStorage() session.Storage {
	if km, err := keychain.GetManager(); err == nil {
		return session.NewKeychainStorage(km)
	}
	if dir, err := xdg.StateDir(); err == nil {
		return session.NewFileStorage(dir)
	}
	return session.NewMemoryStorage()
}

// requireLogin evaluates the route guard and prints the login redirect when
// the session is missing. Protected commands call it before rendering.
func (a *app) requireLogin(ctx context.Context) bool {
	if a.guard.Check(ctx) == guard.RedirectLogin {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'orbit login' to get started.")
		return false
	}
	return true
}
