// Copyright (c) 2025 Orbit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusErr mimics an API error carrying an HTTP status.
type statusErr struct {
	status int
}

func (e *statusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e *statusErr) HTTPStatus() int { return e.status }

func countingFetcher(calls *atomic.Int32, value string, err error) FetchFunc {
	return func(ctx context.Context, key string) (json.RawMessage, error) {
		calls.Add(1)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(value), nil
	}
}

func TestGetCachesValue(t *testing.T) {
	var calls atomic.Int32
	c := New(countingFetcher(&calls, `{"a":1}`, nil))

	for i := 0; i < 3; i++ {
		raw, err := c.Get(context.Background(), "auth/user/")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(raw))
	}
	assert.Equal(t, int32(1), calls.Load(), "repeated reads must reuse the cached value")
}

func TestConcurrentMissesShareOneRequest(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := New(func(ctx context.Context, key string) (json.RawMessage, error) {
		calls.Add(1)
		<-release
		return json.RawMessage(`{}`), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "auth/user/")
			assert.NoError(t, err)
		}()
	}
	// Give the goroutines a moment to pile onto the same key.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses for one key must share one fetch")
}

func TestPurgeAllForcesRefetch(t *testing.T) {
	var calls atomic.Int32
	c := New(countingFetcher(&calls, `{}`, nil))

	_, err := c.Get(context.Background(), "auth/user/")
	require.NoError(t, err)

	c.PurgeAll()
	assert.Zero(t, c.Len())

	_, err = c.Get(context.Background(), "auth/user/")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNoRetryOnAuthFailure(t *testing.T) {
	for _, status := range []int{401, 403} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			var calls atomic.Int32
			c := New(countingFetcher(&calls, "", &statusErr{status: status}), WithRetries(3))

			_, err := c.Get(context.Background(), "auth/user/")

			var se *statusErr
			require.ErrorAs(t, err, &se)
			assert.Equal(t, int32(1), calls.Load(), "authorization failures must not be retried")
		})
	}
}

func TestTransientFailureRetried(t *testing.T) {
	var calls atomic.Int32
	c := New(func(ctx context.Context, key string) (json.RawMessage, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		return json.RawMessage(`{}`), nil
	}, WithRetries(1))

	raw, err := c.Get(context.Background(), "auth/user/")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
	assert.Equal(t, int32(2), calls.Load())
}

func TestStaleEntryServedAndRevalidated(t *testing.T) {
	var calls atomic.Int32
	var current atomic.Value
	current.Store(`{"v":1}`)
	c := New(func(ctx context.Context, key string) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(current.Load().(string)), nil
	}, WithTTL(time.Nanosecond))

	raw, err := c.Get(context.Background(), "auth/user/")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(raw))

	current.Store(`{"v":2}`)

	// The entry is already stale; the stale value comes back immediately and a
	// background refresh is kicked off.
	raw, err = c.Get(context.Background(), "auth/user/")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(raw))

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond, "stale entry never revalidated")
}

func TestGetJSON(t *testing.T) {
	c := New(func(ctx context.Context, key string) (json.RawMessage, error) {
		return json.RawMessage(`{"email": "a@b.c"}`), nil
	})

	var out struct {
		Email string `json:"email"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "auth/user/", &out))
	assert.Equal(t, "a@b.c", out.Email)
}
