package myfxbook

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerCachesToken(t *testing.T) {
	var calls atomic.Int64
	mgr := newSessionManager(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "tok", nil
	})

	tok, err := mgr.acquire(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	tok, err = mgr.acquire(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	assert.Equal(t, int64(1), calls.Load(), "cached token must be returned without a login")
}

func TestSessionManagerForceRefreshAlwaysLogsIn(t *testing.T) {
	var calls atomic.Int64
	mgr := newSessionManager(func(ctx context.Context) (string, error) {
		return fmt.Sprintf("tok-%d", calls.Add(1)), nil
	})

	_, err := mgr.acquire(context.Background(), false)
	require.NoError(t, err)
	_, err = mgr.acquire(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestSessionManagerClearsCacheOnFailure(t *testing.T) {
	fail := true
	mgr := newSessionManager(func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("login failed")
		}
		return "fresh", nil
	})

	mgr.mu.Lock()
	mgr.token = "stale"
	mgr.mu.Unlock()

	_, err := mgr.acquire(context.Background(), true)
	require.Error(t, err)
	assert.Empty(t, mgr.current(), "failed refresh must not leave a stale token cached")

	fail = false
	tok, err := mgr.acquire(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok)
}

func TestSessionManagerInvalidateIsIdempotent(t *testing.T) {
	mgr := newSessionManager(func(ctx context.Context) (string, error) {
		return "tok", nil
	})

	_, err := mgr.acquire(context.Background(), false)
	require.NoError(t, err)

	mgr.invalidate()
	mgr.invalidate()
	assert.Empty(t, mgr.current())
}

func TestSessionManagerSharesConcurrentRefresh(t *testing.T) {
	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	mgr := newSessionManager(func(ctx context.Context) (string, error) {
		calls.Add(1)
		close(started)
		<-release
		return "shared", nil
	})

	var wg sync.WaitGroup
	results := make([]string, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		tok, err := mgr.acquire(context.Background(), true)
		assert.NoError(t, err)
		results[0] = tok
	}()

	// Wait for the first handshake to be in flight, then pile on a second
	// forced refresh; it must join the in-flight login, not start another.
	<-started
	wg.Add(1)
	go func() {
		defer wg.Done()
		tok, err := mgr.acquire(context.Background(), true)
		assert.NoError(t, err)
		results[1] = tok
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent refreshes must share one handshake")
	assert.Equal(t, "shared", results[0])
	assert.Equal(t, "shared", results[1])
}
