package myfxbook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	xproxy "golang.org/x/net/proxy"
)

// newHTTPClient builds the outbound transport once, from the optional
// proxy endpoint. An empty endpoint means direct connections. A configured
// endpoint routes everything through a SOCKS5 tunnel; if the tunnel cannot
// be set up the construction fails outright. Falling back to a direct
// connection would defeat the point of configuring a proxy (bypassing an
// IP block), so it never happens.
func newHTTPClient(proxyURL string, timeout time.Duration, logger zerolog.Logger) (*http.Client, error) {
	if proxyURL == "" {
		return &http.Client{Timeout: timeout}, nil
	}

	endpoint, err := normalizeProxyURL(proxyURL)
	if err != nil {
		return nil, err
	}

	dialer, err := xproxy.FromURL(endpoint, xproxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy dialer for %s: %w", endpoint.Host, err)
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(xproxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	logger.Debug().Str("proxy", endpoint.Redacted()).Msg("Routing upstream traffic through proxy")

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// normalizeProxyURL parses the configured endpoint and normalizes its
// scheme. Deployments historically configure the tunnel as a bare
// "http://host:port" or "host:port" even though the listener speaks
// SOCKS5, so those are reinterpreted as socks5. Anything that is not a
// SOCKS flavor after normalization is rejected rather than guessed at.
func normalizeProxyURL(raw string) (*url.URL, error) {
	// A bare "host:port" would otherwise parse with the host in the
	// scheme position.
	if !strings.Contains(raw, "://") {
		raw = "socks5://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable proxy endpoint %q", ErrConfiguration, raw)
	}

	switch u.Scheme {
	case "socks5", "socks5h":
	case "http":
		u.Scheme = "socks5"
	default:
		return nil, fmt.Errorf("%w: unsupported proxy scheme %q", ErrConfiguration, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: proxy endpoint %q has no host", ErrConfiguration, raw)
	}
	return u, nil
}
