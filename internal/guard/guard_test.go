// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"context"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Decision
	}{
		{
			name:  "token present allows",
			token: "tok1",
			want:  Allow,
		},
		{
			name:  "empty token redirects to login",
			token: "",
			want:  RedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.token); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestGuardReadsTokenAtCheckTime(t *testing.T) {
	token := ""
	g := New(tokenFunc(func() string { return token }))

	if got := g.Check(context.Background()); got != RedirectLogin {
		t.Errorf("Check() = %v before login, want RedirectLogin", got)
	}

	token = "tok1"
	if got := g.Check(context.Background()); got != Allow {
		t.Errorf("Check() = %v after login, want Allow", got)
	}
}

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }
