// Package filter compiles expr-lang expressions for selecting account
// snapshots, e.g. `Gain > 10 && !Demo` or `daysSince(LastUpdate) > 7`.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fxbeat/fxbeat/myfxbook"
)

// Filter is a compiled snapshot filter.
type Filter struct {
	program *vm.Program
	source  string
}

// helpers are available inside every expression alongside the snapshot
// fields.
func helpers() map[string]interface{} {
	return map[string]interface{}{
		"daysSince": func(t time.Time) int {
			if t.IsZero() {
				return -1
			}
			return int(time.Since(t).Hours() / 24)
		},
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"now":   time.Now,
	}
}

// Compile compiles a filter expression. The expression sees the fields of
// an AccountSnapshot as top-level variables and must evaluate to a bool.
func Compile(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	env := environment(myfxbook.AccountSnapshot{})
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	return &Filter{program: program, source: expression}, nil
}

// Match reports whether the snapshot satisfies the filter.
func (f *Filter) Match(snapshot myfxbook.AccountSnapshot) (bool, error) {
	out, err := expr.Run(f.program, environment(snapshot))
	if err != nil {
		return false, fmt.Errorf("filter %q failed: %w", f.source, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not evaluate to a boolean", f.source)
	}
	return matched, nil
}

// Apply returns the snapshots matching the filter, preserving order.
func (f *Filter) Apply(snapshots []myfxbook.AccountSnapshot) ([]myfxbook.AccountSnapshot, error) {
	matched := make([]myfxbook.AccountSnapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		ok, err := f.Match(snapshot)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, snapshot)
		}
	}
	return matched, nil
}

// String returns the original expression.
func (f *Filter) String() string {
	return f.source
}

func environment(snapshot myfxbook.AccountSnapshot) map[string]interface{} {
	env := helpers()
	env["ID"] = snapshot.ID
	env["Name"] = snapshot.Name
	env["AccountNumber"] = snapshot.AccountNumber
	env["Balance"] = snapshot.Balance
	env["Equity"] = snapshot.Equity
	env["Profit"] = snapshot.Profit
	env["Currency"] = snapshot.Currency
	env["Gain"] = snapshot.Gain
	env["Daily"] = snapshot.Daily
	env["Monthly"] = snapshot.Monthly
	env["Drawdown"] = snapshot.Drawdown
	env["Demo"] = snapshot.Demo
	env["LastUpdate"] = snapshot.LastUpdate
	return env
}
