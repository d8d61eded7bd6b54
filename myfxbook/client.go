package myfxbook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "fxbeat"
)

// Client wraps the Myfxbook API. The upstream publishes no SDK and sits
// behind bot mitigation, so the client caches one session token, detects
// challenge interstitials, and optionally tunnels through a SOCKS proxy.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
	sessions   *sessionManager
	logger     zerolog.Logger
}

// NewClient creates a new Myfxbook client. No login is performed here; the
// session handshake happens lazily on the first request that needs it.
func NewClient(baseURL, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrConfiguration)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		username:  username,
		password:  password,
		userAgent: options.userAgent,
		logger:    logger,
	}
	client.sessions = newSessionManager(client.performLogin)

	if options.httpClient != nil {
		client.httpClient = options.httpClient
	} else {
		httpClient, err := newHTTPClient(options.proxyURL, options.timeout, logger)
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// GetAccounts returns a point-in-time snapshot of every account visible to
// the configured user, in upstream order. An expired session is recovered
// internally with exactly one re-login and replay; the second attempt's
// outcome is returned verbatim. Every other failure propagates immediately
// with its classified kind intact.
func (c *Client) GetAccounts(ctx context.Context) ([]AccountSnapshot, error) {
	token, err := c.sessions.acquire(ctx, false)
	if err != nil {
		return nil, err
	}

	accounts, err := c.fetchAccounts(ctx, token)
	if !errors.Is(err, ErrSessionExpired) {
		return accounts, err
	}

	c.logger.Debug().Msg("Session expired, refreshing and retrying once")
	token, err = c.sessions.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	return c.fetchAccounts(ctx, token)
}

// Login forces a fresh login handshake, replacing any cached session.
// Useful for verifying credentials and proxy reachability without
// fetching data.
func (c *Client) Login(ctx context.Context) error {
	_, err := c.sessions.acquire(ctx, true)
	return err
}

// InvalidateSession unconditionally drops the cached session token so the
// next request performs a fresh login. It never fails and never touches
// the network.
func (c *Client) InvalidateSession() {
	c.sessions.invalidate()
	c.logger.Debug().Msg("Session cache cleared")
}

// Logout revokes the cached session with the upstream and clears the
// cache. Revocation is best-effort: the cache is cleared even when the
// upstream call fails, since the local token is unusable afterwards
// either way.
func (c *Client) Logout(ctx context.Context) error {
	token := c.sessions.current()
	if token == "" {
		return nil
	}
	c.sessions.invalidate()

	// Same rule as the accounts call: the token is already URL-safe and
	// must not be re-encoded.
	requestURL := fmt.Sprintf("%s/logout.json?session=%s", c.baseURL, token)
	result, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}
	if result.kind == kindBotChallenge {
		return &ChallengeError{Signature: result.signature}
	}
	return nil
}

// performLogin runs the login handshake and returns the fresh session
// token. Missing credentials fail fast without a network call.
func (c *Client) performLogin(ctx context.Context) (string, error) {
	if c.username == "" || c.password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrConfiguration)
	}

	params := url.Values{
		"email":    {c.username},
		"password": {c.password},
	}
	requestURL := fmt.Sprintf("%s/login.json?%s", c.baseURL, params.Encode())

	c.logger.Debug().Str("user", c.username).Msg("Logging in to Myfxbook")

	result, err := c.get(ctx, requestURL)
	if err != nil {
		return "", err
	}

	switch result.kind {
	case kindPayload:
		var resp loginResponse
		if err := decodePayload(result.payload, &resp); err != nil {
			return "", err
		}
		if resp.Error || resp.Session == "" {
			return "", fmt.Errorf("%w: %s", ErrAuthenticationFailed, orUnspecified(resp.Message))
		}
		c.logger.Info().Msg("Myfxbook login succeeded")
		return resp.Session, nil
	case kindBotChallenge:
		return "", &ChallengeError{Signature: result.signature}
	default:
		return "", &UpstreamError{StatusCode: result.statusCode, BodyPrefix: result.bodyPrefix}
	}
}

// get issues one GET and classifies the raw response. Transport-level
// failures (dial, tunnel, timeout) come back as UpstreamError.
func (c *Client) get(ctx context.Context, requestURL string) (classified, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return classified{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classified{}, &UpstreamError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classified{}, &UpstreamError{Cause: err}
	}

	result := classifyResponse(resp.StatusCode, resp.Header.Get("Content-Type"), body)
	if result.kind == kindBotChallenge {
		c.logger.Warn().Str("signature", result.signature).Int("status", resp.StatusCode).
			Msg("Upstream served a bot-mitigation challenge")
	}
	return result, nil
}
