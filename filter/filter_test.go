package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxbeat/fxbeat/myfxbook"
)

func sampleSnapshots() []myfxbook.AccountSnapshot {
	return []myfxbook.AccountSnapshot{
		{
			ID:       1,
			Name:     "Live EUR",
			Currency: "EUR",
			Balance:  10000,
			Equity:   9800,
			Gain:     15.5,
			Drawdown: 12.0,
			Demo:     false,
			LastUpdate: time.Now().Add(-2 * time.Hour),
		},
		{
			ID:       2,
			Name:     "Demo USD",
			Currency: "USD",
			Balance:  50000,
			Gain:     -3.2,
			Demo:     true,
			LastUpdate: time.Now().AddDate(0, 0, -30),
		},
	}
}

func TestCompileRejectsBadExpressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: "   "},
		{name: "syntax error", expr: "Gain >"},
		{name: "non-boolean result", expr: "Balance + 1"},
		{name: "unknown variable", expr: "Turnover > 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantNames []string
	}{
		{name: "live accounts", expr: "!Demo", wantNames: []string{"Live EUR"}},
		{name: "gain threshold", expr: "Gain > 10", wantNames: []string{"Live EUR"}},
		{name: "currency match", expr: `Currency == "USD"`, wantNames: []string{"Demo USD"}},
		{name: "stale accounts", expr: "daysSince(LastUpdate) > 7", wantNames: []string{"Demo USD"}},
		{name: "name contains", expr: `contains(Name, "demo")`, wantNames: []string{"Demo USD"}},
		{name: "combined", expr: "Demo || Drawdown > 10", wantNames: []string{"Live EUR", "Demo USD"}},
		{name: "matches nothing", expr: "Balance > 1000000", wantNames: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expr)
			require.NoError(t, err)

			matched, err := f.Apply(sampleSnapshots())
			require.NoError(t, err)

			names := make([]string, 0, len(matched))
			for _, s := range matched {
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestString(t *testing.T) {
	f, err := Compile("Gain > 0")
	require.NoError(t, err)
	assert.Equal(t, "Gain > 0", f.String())
}
