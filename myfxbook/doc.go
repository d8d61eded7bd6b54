// Package myfxbook provides a client for the Myfxbook account API.
//
// The upstream has no official SDK and sits behind aggressive bot
// mitigation, which shapes the whole package: a single session token is
// cached and reused across requests, every response is classified before
// it is parsed, and traffic can be tunneled through a SOCKS proxy to work
// around IP-level blocking.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := myfxbook.NewClient(
//		"https://www.myfxbook.com/api",
//		"user@example.com",
//		"secret",
//		logger,
//		myfxbook.WithProxy("socks5://127.0.0.1:9050"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	accounts, err := client.GetAccounts(ctx)
//
// GetAccounts logs in lazily, reuses the cached session, and transparently
// retries once when the upstream reports the session expired. Concurrent
// callers needing a fresh login share a single handshake.
//
// # Error Handling
//
// Failures carry a classified kind, checked with errors.Is:
//
//	if errors.Is(err, myfxbook.ErrBlockedByUpstream) {
//		// challenge page served: back off for a while, or reconfigure
//		// the proxy, before polling again
//	}
//
// ErrBlockedByUpstream is the one kind callers should treat differently
// from ordinary unavailability; it means the anti-automation layer is
// engaged and fast retries will make things worse. Only an explicit
// challenge signature match produces it; generic upstream HTML (outages,
// geo blocks) classifies as ErrUpstreamUnavailable instead.
package myfxbook
