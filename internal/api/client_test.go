// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenConsultedAtSendTime(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	token := ""
	c := New(srv.URL, func() string { return token })

	var out map[string]any
	require.NoError(t, c.Get(context.Background(), "auth/user/", &out))

	// Token change mid-session is honored without re-instantiating the client.
	token = "tok2"
	require.NoError(t, c.Get(context.Background(), "auth/user/", &out))

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0], "tokenless request must carry no Authorization header")
	assert.Equal(t, "Bearer tok2", seen[1])
}

func TestRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "" })
	var out map[string]any
	require.NoError(t, c.Post(context.Background(), "auth/login/", map[string]string{"email": "a@b.c"}, &out))
}

func TestErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors": ["E-mail is not verified."]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, func() string { return "" })
	err := c.Post(context.Background(), "auth/login/", map[string]string{}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "E-mail is not verified.", apiErr.Message)
}

func TestAuthLostFiredForAuthenticated401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token."}`))
	}))
	defer srv.Close()

	var fired atomic.Int32
	c := New(srv.URL, func() string { return "stale" },
		WithAuthLostHandler(func() { fired.Add(1) }))

	err := c.Get(context.Background(), "auth/user/", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Unauthorized())
	assert.Equal(t, int32(1), fired.Load())
}

func TestAuthLostNotFiredForTokenless401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"non_field_errors": ["Incorrect credentials."]}`))
	}))
	defer srv.Close()

	var fired atomic.Int32
	c := New(srv.URL, func() string { return "" },
		WithAuthLostHandler(func() { fired.Add(1) }))

	// A failed login is a form error, not session expiry.
	err := c.Post(context.Background(), "auth/login/", map[string]string{}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Incorrect")
	assert.Zero(t, fired.Load())
}

func TestGetRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"greeting": "hello"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	raw, err := c.GetRaw(context.Background(), "locales/en/common.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting": "hello"}`, string(raw))
}
