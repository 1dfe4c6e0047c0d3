// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Error is the normalized shape of a non-2xx backend response.
//
// Message carries the server-provided text when one can be extracted, or a
// generic "request failed" fallback. Fields holds field-scoped validation
// errors keyed by form field, for inline display. Body is the raw response
// for diagnostics.
type Error struct {
	Status  int
	Message string
	Fields  map[string][]string
	Body    []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// HTTPStatus returns the response status code. The fetch cache uses it to
// decide whether a failure is worth retrying.
func (e *Error) HTTPStatus() int { return e.Status }

// Unauthorized reports whether the response was a 401.
func (e *Error) Unauthorized() bool { return e.Status == 401 }

// parseError normalizes a non-2xx response body into an *Error.
//
// The backend reports failures either as {"detail": "..."}, as
// {"non_field_errors": ["..."]}, or as {"<field>": ["...", ...]} maps.
// Anything that is not JSON falls back to the trimmed raw text, and an empty
// body to a generic message carrying the status code.
func parseError(status int, body []byte) *Error {
	e := &Error{
		Status: status,
		Body:   body,
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		e.Fields = map[string][]string{}
		for key, val := range raw {
			switch v := val.(type) {
			case string:
				if key == "detail" || key == "message" {
					if e.Message == "" {
						e.Message = v
					}
					continue
				}
				e.Fields[key] = []string{v}
			case []any:
				var msgs []string
				for _, item := range v {
					if s, ok := item.(string); ok {
						msgs = append(msgs, s)
					}
				}
				if len(msgs) == 0 {
					continue
				}
				if key == "non_field_errors" {
					if e.Message == "" {
						e.Message = msgs[0]
					}
					continue
				}
				e.Fields[key] = msgs
			}
		}
		if len(e.Fields) == 0 {
			e.Fields = nil
		}
		// A pure field-error response still needs a headline message.
		if e.Message == "" && e.Fields != nil {
			keys := make([]string, 0, len(e.Fields))
			for key := range e.Fields {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			e.Message = keys[0] + ": " + e.Fields[keys[0]][0]
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		e.Message = text
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("request failed: %d", status)
	}
	return e
}
