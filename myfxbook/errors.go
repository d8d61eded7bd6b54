package myfxbook

import (
	"errors"
	"fmt"
)

// Common errors returned by the Myfxbook client. Callers classify
// failures with errors.Is; only ErrBlockedByUpstream warrants a long
// backoff before retrying.
var (
	// ErrConfiguration indicates missing or unusable client configuration.
	ErrConfiguration = errors.New("invalid myfxbook configuration")
	// ErrAuthenticationFailed indicates the upstream rejected the credentials.
	ErrAuthenticationFailed = errors.New("myfxbook authentication failed")
	// ErrSessionExpired indicates the cached session token is no longer valid.
	// GetAccounts recovers from this internally with a single re-login; it
	// only surfaces when the retry fails the same way.
	ErrSessionExpired = errors.New("myfxbook session expired")
	// ErrBlockedByUpstream indicates a bot-mitigation challenge page was
	// served instead of the requested data.
	ErrBlockedByUpstream = errors.New("blocked by upstream bot mitigation")
	// ErrRequestRejected indicates the upstream returned a substantive
	// business error for the request.
	ErrRequestRejected = errors.New("request rejected by myfxbook")
	// ErrUpstreamUnavailable indicates a network, timeout, or parse failure.
	ErrUpstreamUnavailable = errors.New("myfxbook unavailable")
)

// ChallengeError reports a detected bot-mitigation challenge, carrying the
// signature that matched for diagnostics.
type ChallengeError struct {
	Signature string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("blocked by upstream bot mitigation: matched %q", e.Signature)
}

// Unwrap allows errors.Is(err, ErrBlockedByUpstream).
func (e *ChallengeError) Unwrap() error {
	return ErrBlockedByUpstream
}

// UpstreamError reports an unusable upstream response, carrying the HTTP
// status and a bounded prefix of the body for diagnostics.
type UpstreamError struct {
	StatusCode int
	BodyPrefix string
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("myfxbook unavailable: %v", e.Cause)
	}
	return fmt.Sprintf("myfxbook unavailable: status %d: %s", e.StatusCode, e.BodyPrefix)
}

// Unwrap allows errors.Is(err, ErrUpstreamUnavailable).
func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamUnavailable
}
