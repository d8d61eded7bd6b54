package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/fxbeat/fxbeat/myfxbook"
)

var watchInterval time.Duration

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll account snapshots on a fixed interval",
	Long: `Poll the upstream on a fixed interval and log each snapshot.

Transient upstream failures are retried with exponential backoff. A
bot-mitigation challenge pauses polling for watch.block_backoff instead,
since hammering the challenge only prolongs the block. SIGHUP drops the
cached session so the next poll performs a fresh login.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to each poll")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "poll interval (overrides watch.interval)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval := cfg.Watch.Interval
	if watchInterval > 0 {
		interval = watchInterval
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hangup := make(chan os.Signal, 1)
	signal.Notify(hangup, syscall.SIGHUP)
	defer signal.Stop(hangup)

	logger.Info().Dur("interval", interval).Msg("Starting watch loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var blockedUntil time.Time

	// First poll immediately, then on every tick.
	for {
		if time.Now().After(blockedUntil) {
			if err := pollOnce(ctx); err != nil {
				switch {
				case errors.Is(err, myfxbook.ErrBlockedByUpstream):
					blockedUntil = time.Now().Add(cfg.Watch.BlockBackoff)
					logger.Warn().Err(err).Time("resume_at", blockedUntil).
						Msg("Upstream is serving challenges, backing off")
				case errors.Is(err, myfxbook.ErrConfiguration),
					errors.Is(err, myfxbook.ErrAuthenticationFailed):
					// Neither fixes itself; stop instead of spinning.
					return err
				default:
					logger.Error().Err(err).Msg("Poll failed")
				}
			}
		} else {
			logger.Debug().Time("resume_at", blockedUntil).Msg("Still backing off after challenge")
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down")
			logoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Logout(logoutCtx); err != nil {
				logger.Warn().Err(err).Msg("Logout failed")
			}
			return nil
		case <-hangup:
			logger.Info().Msg("SIGHUP received, clearing cached session")
			client.InvalidateSession()
		case <-ticker.C:
		}
	}
}

// pollOnce fetches one round of snapshots, retrying transient
// unavailability with backoff. Challenge, auth, and rejection failures are
// not retried here; they need a different response than "try again soon".
func pollOnce(ctx context.Context) error {
	snapshots, err := retry.DoWithData(
		func() ([]myfxbook.AccountSnapshot, error) {
			return client.GetAccounts(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, myfxbook.ErrUpstreamUnavailable)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return err
	}

	snapshots, err = applyFilter(snapshots)
	if err != nil {
		return err
	}

	for _, s := range snapshots {
		logger.Info().
			Str("name", s.Name).
			Int64("account", s.AccountNumber).
			Float64("balance", s.Balance).
			Float64("equity", s.Equity).
			Float64("profit", s.Profit).
			Str("currency", s.Currency).
			Float64("gain", s.Gain).
			Float64("drawdown", s.Drawdown).
			Bool("demo", s.Demo).
			Time("updated", s.LastUpdate).
			Msg("Account snapshot")
	}
	if len(snapshots) == 0 {
		logger.Info().Msg("No accounts matched")
	}
	return nil
}
