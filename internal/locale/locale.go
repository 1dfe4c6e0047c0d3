// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package locale loads translation namespaces from the backend.
//
// Namespaces are fetched as locales/{lng}/{ns}.json through the shared fetch
// cache, so repeated lookups of the same namespace cost one round trip.
// Nested namespace JSON is flattened to dot-separated keys.
package locale

import (
	"context"
	"fmt"
	"regexp"

	"orbit/cli/internal/fetch"
)

var (
	reLanguage  = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)
	reNamespace = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// Table maps flattened translation keys to their localized strings.
type Table map[string]string

// Get looks up a translation key.
func (t Table) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Loader resolves translation namespaces with language fallback.
type Loader struct {
	cache    *fetch.Cache
	fallback string
}

// NewLoader creates a loader reading through cache. fallback is the language
// consulted when a key is missing from the requested one; empty disables
// fallback.
func NewLoader(cache *fetch.Cache, fallback string) *Loader {
	return &Loader{cache: cache, fallback: fallback}
}

// Load fetches and flattens one namespace for one language.
// Invalid language tags or namespaces are rejected locally, mirroring the
// backend's 400 for malformed locale paths.
func (l *Loader) Load(ctx context.Context, lng, ns string) (Table, error) {
	if !reLanguage.MatchString(lng) {
		return nil, fmt.Errorf("invalid language %q", lng)
	}
	if !reNamespace.MatchString(ns) {
		return nil, fmt.Errorf("invalid namespace %q", ns)
	}

	var raw map[string]any
	key := fmt.Sprintf("locales/%s/%s.json", lng, ns)
	if err := l.cache.GetJSON(ctx, key, &raw); err != nil {
		return nil, err
	}

	t := Table{}
	flatten("", raw, t)
	return t, nil
}

// T resolves a single key, falling back to the loader's fallback language and
// finally to the key itself so the caller always has something to render.
func (l *Loader) T(ctx context.Context, lng, ns, key string) string {
	if t, err := l.Load(ctx, lng, ns); err == nil {
		if v, ok := t.Get(key); ok {
			return v
		}
	}
	if l.fallback != "" && l.fallback != lng {
		if t, err := l.Load(ctx, l.fallback, ns); err == nil {
			if v, ok := t.Get(key); ok {
				return v
			}
		}
	}
	return key
}

func flatten(prefix string, node map[string]any, out Table) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}
