// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bearer token",
			input:    "Authorization: Bearer abc123.xyz-456",
			expected: "Authorization: Bearer ***",
		},
		{
			name:     "token parameter",
			input:    "token=abc123xyz",
			expected: "token=***",
		},
		{
			name:     "password parameter",
			input:    "password=secret123",
			expected: "password=***",
		},
		{
			name:     "serialized key payload",
			input:    `response body: {"key": "9f8e7d6c"}`,
			expected: `response body: {"key": "***"}`,
		},
		{
			name:     "api key",
			input:    "apikey=sk_test_123456",
			expected: "apikey=***",
		},
		{
			name:     "plain text untouched",
			input:    "request failed: 502",
			expected: "request failed: 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mask(tt.input)
			if result != tt.expected {
				t.Errorf("Mask() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestPresentError(t *testing.T) {
	if got := PresentError("signing in", nil); got != "" {
		t.Errorf("PresentError(nil) = %q, want empty", got)
	}
}
