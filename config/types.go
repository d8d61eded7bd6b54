package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Myfxbook MyfxbookConfig `mapstructure:"myfxbook"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// MyfxbookConfig holds the upstream API connection details. Username and
// password may legitimately be empty at load time; the client reports a
// configuration error when a request actually needs them. Proxy is
// optional: empty means direct connections.
type MyfxbookConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Proxy    string        `mapstructure:"proxy"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// RatesConfig holds the optional currency-rate lookup settings. Currency
// is the display currency balances are converted into.
type RatesConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Currency string `mapstructure:"currency"`
}

// WatchConfig contains poll-loop settings. BlockBackoff is how long the
// loop waits after the upstream serves a bot-mitigation challenge before
// polling again.
type WatchConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	BlockBackoff time.Duration `mapstructure:"block_backoff"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
