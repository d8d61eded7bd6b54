package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fxbeat/fxbeat/filter"
	"github.com/fxbeat/fxbeat/myfxbook"
)

// accountsCmd represents the accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Fetch and display the current account snapshots",
	Long: `Fetch a point-in-time snapshot of every account visible to the
configured user. Snapshots can be narrowed with a filter expression and
balances optionally converted into a display currency.`,
	RunE: runAccounts,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", `filter expression, e.g. 'Gain > 10 && !Demo'`)
	accountsCmd.Flags().StringVar(&displayCurrency, "currency", "", "convert balances into this currency (requires rates.enabled)")
}

func runAccounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	snapshots, err := client.GetAccounts(ctx)
	if err != nil {
		return err
	}

	snapshots, err = applyFilter(snapshots)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	conversions, target, err := lookupConversions(ctx, snapshots)
	if err != nil {
		logger.Warn().Err(err).Msg("Rate lookup failed, printing native currencies")
		conversions, target = nil, ""
	}

	printSnapshots(snapshots, conversions, target)
	return nil
}

func applyFilter(snapshots []myfxbook.AccountSnapshot) ([]myfxbook.AccountSnapshot, error) {
	if filterExpr == "" {
		return snapshots, nil
	}
	f, err := filter.Compile(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f.Apply(snapshots)
}

// lookupConversions fetches the conversion rate for every distinct account
// currency into the display currency, fanning the lookups out concurrently.
// Returns nil when conversion is not configured.
func lookupConversions(ctx context.Context, snapshots []myfxbook.AccountSnapshot) (map[string]float64, string, error) {
	target := displayCurrency
	if target == "" {
		target = cfg.Rates.Currency
	}
	if ratesClient == nil || target == "" {
		return nil, "", nil
	}
	target = strings.ToUpper(target)

	currencies := make(map[string]struct{})
	for _, s := range snapshots {
		if s.Currency != "" {
			currencies[strings.ToUpper(s.Currency)] = struct{}{}
		}
	}

	var mu sync.Mutex
	conversions := make(map[string]float64, len(currencies))

	g, gctx := errgroup.WithContext(ctx)
	for currency := range currencies {
		g.Go(func() error {
			rate, err := ratesClient.Rate(gctx, currency, target)
			if err != nil {
				return err
			}
			mu.Lock()
			conversions[currency] = rate
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return conversions, target, nil
}

func printSnapshots(snapshots []myfxbook.AccountSnapshot, conversions map[string]float64, target string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if conversions != nil {
		fmt.Fprintf(w, "NAME\tACCOUNT\tBALANCE (%s)\tEQUITY (%s)\tPROFIT\tGAIN%%\tDAILY%%\tMONTHLY%%\tDD%%\tTYPE\tUPDATED\n", target, target)
	} else {
		fmt.Fprintln(w, "NAME\tACCOUNT\tBALANCE\tEQUITY\tPROFIT\tGAIN%\tDAILY%\tMONTHLY%\tDD%\tTYPE\tUPDATED")
	}

	for _, s := range snapshots {
		balance, equity := s.Balance, s.Equity
		currency := s.Currency
		if rate, ok := conversions[strings.ToUpper(s.Currency)]; ok {
			balance *= rate
			equity *= rate
			currency = target
		}

		kind := "live"
		if s.Demo {
			kind = "demo"
		}
		updated := "-"
		if !s.LastUpdate.IsZero() {
			updated = s.LastUpdate.Format("2006-01-02 15:04")
		}

		fmt.Fprintf(w, "%s\t%d\t%.2f %s\t%.2f %s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			s.Name, s.AccountNumber, balance, currency, equity, currency,
			s.Profit, s.Gain, s.Daily, s.Monthly, s.Drawdown, kind, updated)
	}
}
