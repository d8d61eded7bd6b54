package myfxbook

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// sessionManager owns the single cached session token. The token is bound
// to our outbound IP and stays valid for weeks unless the upstream revokes
// it, so one process-wide credential is cached and reused; there is no
// pool. All access goes through the manager so concurrent refreshes cannot
// race, and concurrent callers needing a refresh share one login handshake
// instead of issuing redundant ones.
type sessionManager struct {
	mu    sync.Mutex
	token string

	group singleflight.Group
	login func(ctx context.Context) (string, error)
}

func newSessionManager(login func(ctx context.Context) (string, error)) *sessionManager {
	return &sessionManager{login: login}
}

// acquire returns the cached token, or performs the login handshake when
// the cache is empty or forceRefresh is set. A failed handshake leaves the
// cache empty.
func (s *sessionManager) acquire(ctx context.Context, forceRefresh bool) (string, error) {
	if !forceRefresh {
		s.mu.Lock()
		token := s.token
		s.mu.Unlock()
		if token != "" {
			return token, nil
		}
	}

	v, err, _ := s.group.Do("login", func() (interface{}, error) {
		token, err := s.login(ctx)
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// invalidate drops the cached token. Idempotent, never touches the network.
func (s *sessionManager) invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// current returns the cached token without triggering a login.
func (s *sessionManager) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
