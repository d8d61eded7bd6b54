package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fxbeat/fxbeat/config"
	"github.com/fxbeat/fxbeat/myfxbook"
	"github.com/fxbeat/fxbeat/rates"
)

var (
	cfgFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	client      *myfxbook.Client
	ratesClient *rates.Client

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	filterExpr      string
	displayCurrency string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fxbeat",
	Short: "Poll Myfxbook account snapshots from the command line",
	Long: `fxbeat is a CLI for the Myfxbook account API. It caches a session
token across requests, detects bot-mitigation challenge pages, and can
route traffic through a SOCKS proxy when the upstream blocks your IP.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information for the application.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = myfxbook.NewClient(
		cfg.Myfxbook.URL,
		cfg.Myfxbook.Username,
		cfg.Myfxbook.Password,
		logger,
		myfxbook.WithProxy(cfg.Myfxbook.Proxy),
		myfxbook.WithTimeout(cfg.Myfxbook.Timeout),
		myfxbook.WithUserAgent("fxbeat/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create Myfxbook client: %w", err)
	}

	if cfg.Rates.Enabled {
		ratesClient, err = rates.NewClient(cfg.Rates.URL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create rates client, continuing without conversion")
		} else {
			logger.Debug().Str("currency", cfg.Rates.Currency).Msg("Currency conversion enabled")
		}
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when requested and actually on a terminal.
	useColor := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !useColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
