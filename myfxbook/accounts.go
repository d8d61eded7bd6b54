package myfxbook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// fetchAccounts issues the authenticated accounts-list request and maps
// the result. The session token arrives already URL-safe from the login
// payload, so the URL is assembled by concatenation: running the token
// through a query encoder again would double-encode it and corrupt it.
func (c *Client) fetchAccounts(ctx context.Context, token string) ([]AccountSnapshot, error) {
	requestURL := fmt.Sprintf("%s/get-my-accounts.json?session=%s", c.baseURL, token)

	result, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	switch result.kind {
	case kindPayload:
		var resp accountsResponse
		if err := decodePayload(result.payload, &resp); err != nil {
			return nil, err
		}
		if resp.Error {
			if isSessionExpiredMessage(resp.Message) {
				return nil, fmt.Errorf("%w: %s", ErrSessionExpired, resp.Message)
			}
			return nil, fmt.Errorf("%w: %s", ErrRequestRejected, orUnspecified(resp.Message))
		}

		snapshots := make([]AccountSnapshot, 0, len(resp.Accounts))
		for _, record := range resp.Accounts {
			snapshots = append(snapshots, record.toSnapshot())
		}
		c.logger.Debug().Int("count", len(snapshots)).Msg("Fetched account snapshots")
		return snapshots, nil
	case kindBotChallenge:
		return nil, &ChallengeError{Signature: result.signature}
	default:
		return nil, &UpstreamError{StatusCode: result.statusCode, BodyPrefix: result.bodyPrefix}
	}
}

// isSessionExpiredMessage decides whether an upstream error message means
// the session token is no longer valid. The upstream only reports this as
// free text, so this is a best-effort heuristic on the word "session";
// a wording or locale change upstream breaks it silently. Keep every
// expiry check routed through here.
func isSessionExpiredMessage(message string) bool {
	return strings.Contains(strings.ToLower(message), "session")
}

// decodePayload unmarshals an already-validated JSON body. A shape
// mismatch still counts as the upstream being unusable, not as a caller
// bug.
func decodePayload(payload []byte, v interface{}) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return &UpstreamError{Cause: fmt.Errorf("unexpected payload shape: %w", err)}
	}
	return nil
}

func orUnspecified(message string) string {
	if message == "" {
		return "no message from upstream"
	}
	return message
}
