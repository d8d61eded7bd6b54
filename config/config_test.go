package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Myfxbook: MyfxbookConfig{
				URL:     "https://www.myfxbook.com/api",
				Timeout: 30 * time.Second,
			},
			Watch: WatchConfig{
				Interval:     5 * time.Minute,
				BlockBackoff: 30 * time.Minute,
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing upstream url",
			mutate:  func(c *Config) { c.Myfxbook.URL = "" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Myfxbook.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero watch interval",
			mutate:  func(c *Config) { c.Watch.Interval = 0 },
			wantErr: true,
		},
		{
			name: "rates enabled without currency",
			mutate: func(c *Config) {
				c.Rates = RatesConfig{Enabled: true, URL: "https://api.frankfurter.dev/v1"}
			},
			wantErr: true,
		},
		{
			name: "rates enabled with currency",
			mutate: func(c *Config) {
				c.Rates = RatesConfig{Enabled: true, URL: "https://api.frankfurter.dev/v1", Currency: "EUR"}
			},
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:   "empty credentials are allowed at load time",
			mutate: func(c *Config) { c.Myfxbook.Username = ""; c.Myfxbook.Password = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
myfxbook:
  url: https://www.myfxbook.com/api
  username: user@example.com
  password: secret
  proxy: socks5://127.0.0.1:9050
rates:
  enabled: true
  currency: EUR
watch:
  interval: 90s
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Myfxbook.Username != "user@example.com" {
		t.Errorf("username = %q", cfg.Myfxbook.Username)
	}
	if cfg.Myfxbook.Proxy != "socks5://127.0.0.1:9050" {
		t.Errorf("proxy = %q", cfg.Myfxbook.Proxy)
	}
	if cfg.Watch.Interval != 90*time.Second {
		t.Errorf("interval = %v", cfg.Watch.Interval)
	}
	if !cfg.Rates.Enabled || cfg.Rates.Currency != "EUR" {
		t.Errorf("rates = %+v", cfg.Rates)
	}
	// Defaults fill in what the file omits.
	if cfg.Myfxbook.Timeout != 30*time.Second {
		t.Errorf("timeout default = %v", cfg.Myfxbook.Timeout)
	}
	if cfg.Watch.BlockBackoff != 30*time.Minute {
		t.Errorf("block_backoff default = %v", cfg.Watch.BlockBackoff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
