// Package config
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/amirphl/stock-ledger/internal/period"
	"gopkg.in/yaml.v3"
)

/*
YAML config example:
db_conn_str: "host=localhost port=5432 user=postgres dbname=ledger sslmode=disable"
db_max_open: 10
db_max_idle: 5
scenario_file: "scenarios/march.yaml"
report_window: "7d"
low_stock_threshold: 3
telegram_token: "..."
telegram_chat_id: "..."
notification_retries: 3
notification_delay: 5s
*/

type Config struct {
	DBConnStr           string   `yaml:"db_conn_str"`
	DBMaxOpen           int      `yaml:"db_max_open"`
	DBMaxIdle           int      `yaml:"db_max_idle"`
	ScenarioFile        string   `yaml:"scenario_file"`
	ReportWindow        string   `yaml:"report_window"`
	LowStockThreshold   float64  `yaml:"low_stock_threshold"`
	TelegramToken       string   `yaml:"telegram_token"`
	TelegramChatID      string   `yaml:"telegram_chat_id"`
	NotificationRetries int      `yaml:"notification_retries"`
	NotificationDelay   Duration `yaml:"notification_delay"`
}

// Duration wraps time.Duration so YAML configs can write "5s" or "1m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DBMaxOpen:           10,
		DBMaxIdle:           5,
		ReportWindow:        "7d",
		NotificationRetries: 3,
		NotificationDelay:   Duration(5 * time.Second),
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.ReportWindow != "" && !period.IsValidWindow(c.ReportWindow) {
		return fmt.Errorf("unsupported report window %q (supported: %v)",
			c.ReportWindow, period.SupportedWindows())
	}
	if c.LowStockThreshold < 0 {
		return fmt.Errorf("low stock threshold cannot be negative, got %v", c.LowStockThreshold)
	}
	if c.NotificationRetries < 0 {
		return fmt.Errorf("notification retries cannot be negative, got %d", c.NotificationRetries)
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("telegram token and chat ID must be set together")
	}
	return nil
}
