package myfxbook

import "time"

// apiEnvelope is the common shell of every Myfxbook API response.
type apiEnvelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// loginResponse is the payload of /api/login.json.
type loginResponse struct {
	apiEnvelope
	Session string `json:"session"`
}

// accountsResponse is the payload of /api/get-my-accounts.json.
type accountsResponse struct {
	apiEnvelope
	Accounts []accountRecord `json:"accounts"`
}

// accountRecord mirrors one entry of the upstream accounts list. Extra
// upstream fields are ignored on purpose; the schema is not ours and it
// moves.
type accountRecord struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	AccountID      int64   `json:"accountId"`
	Balance        float64 `json:"balance"`
	Equity         float64 `json:"equity"`
	Profit         float64 `json:"profit"`
	Currency       string  `json:"currency"`
	Gain           float64 `json:"gain"`
	Daily          float64 `json:"daily"`
	Monthly        float64 `json:"monthly"`
	Drawdown       float64 `json:"drawdown"`
	Demo           bool    `json:"demo"`
	LastUpdateDate string  `json:"lastUpdateDate"`
}

// AccountSnapshot is a point-in-time view of one brokerage account.
// Snapshots are immutable; a fresh slice is produced per successful fetch.
type AccountSnapshot struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AccountNumber int64     `json:"accountNumber"`
	Balance       float64   `json:"balance"`
	Equity        float64   `json:"equity"`
	Profit        float64   `json:"profit"`
	Currency      string    `json:"currency"`
	Gain          float64   `json:"gain"`
	Daily         float64   `json:"daily"`
	Monthly       float64   `json:"monthly"`
	Drawdown      float64   `json:"drawdown"`
	Demo          bool      `json:"demo"`
	LastUpdate    time.Time `json:"lastUpdate"`
}

// lastUpdateLayout is the wall-clock format the upstream uses for
// lastUpdateDate (US date order, no zone; treated as UTC).
const lastUpdateLayout = "01/02/2006 15:04"

func (r accountRecord) toSnapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:            r.ID,
		Name:          r.Name,
		AccountNumber: r.AccountID,
		Balance:       r.Balance,
		Equity:        r.Equity,
		Profit:        r.Profit,
		Currency:      r.Currency,
		Gain:          r.Gain,
		Daily:         r.Daily,
		Monthly:       r.Monthly,
		Drawdown:      r.Drawdown,
		Demo:          r.Demo,
		LastUpdate:    parseLastUpdate(r.LastUpdateDate),
	}
}

// parseLastUpdate parses the upstream timestamp, trying the observed
// wall-clock layout first and RFC3339 second. An unparseable value yields
// the zero time rather than failing the snapshot.
func parseLastUpdate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.ParseInLocation(lastUpdateLayout, s, time.UTC); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
