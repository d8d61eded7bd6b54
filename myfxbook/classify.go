package myfxbook

import (
	"encoding/json"
	"strings"
)

// responseKind tags the outcome of classifying a raw upstream response.
type responseKind int

const (
	// kindPayload: a parseable JSON body the caller can decode.
	kindPayload responseKind = iota
	// kindBotChallenge: an anti-automation interstitial was served.
	kindBotChallenge
	// kindMalformed: anything else (error pages, truncated bodies,
	// maintenance HTML with no challenge signature).
	kindMalformed
)

// classified is the tagged result of inspecting one HTTP response.
type classified struct {
	kind       responseKind
	payload    []byte // kindPayload
	signature  string // kindBotChallenge: which marker matched
	statusCode int    // kindMalformed
	bodyPrefix string // kindMalformed: bounded diagnostic prefix
}

// challengeSignatures are the markers that identify a bot-mitigation
// interstitial. Only an explicit match may claim "challenge": the upstream
// serves HTML for maintenance and geo-block pages too, and treating those
// as transient would trigger pointless retries.
var challengeSignatures = []string{
	"just a moment",
	"checking your browser",
	"attention required! | cloudflare",
	"cf-browser-verification",
	"challenge-platform",
	"__cf_chl_",
	"ddos protection by",
	"ray id:",
}

// bodyPrefixLimit bounds how much of a malformed body is carried around
// for diagnostics.
const bodyPrefixLimit = 256

// classifyResponse decides what a raw upstream response actually is:
// a JSON payload, a bot challenge, or something malformed. Transport
// failures never reach this point; they are classified by the caller.
func classifyResponse(statusCode int, contentType string, body []byte) classified {
	if isJSONContentType(contentType) && !looksLikeHTML(body) {
		if json.Valid(body) {
			return classified{kind: kindPayload, payload: body}
		}
		return classified{
			kind:       kindMalformed,
			statusCode: statusCode,
			bodyPrefix: boundedPrefix(body),
		}
	}

	lower := strings.ToLower(string(body))
	for _, sig := range challengeSignatures {
		if strings.Contains(lower, sig) {
			return classified{kind: kindBotChallenge, signature: sig}
		}
	}

	return classified{
		kind:       kindMalformed,
		statusCode: statusCode,
		bodyPrefix: boundedPrefix(body),
	}
}

func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}

// looksLikeHTML reports whether the body opens with an HTML document
// marker, regardless of what the content-type header claims.
func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

func boundedPrefix(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodyPrefixLimit {
		s = s[:bodyPrefixLimit]
	}
	return s
}
