package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Watchlist []string `yaml:"watchlist"`

	Monitor struct {
		PollCron        string `yaml:"poll_cron"`
		CooldownMinutes int    `yaml:"cooldown_minutes"`
		DryRun          bool   `yaml:"dry_run"`
	} `yaml:"monitor"`

	DataSource struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"data_source"`

	Email struct {
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		From     string `yaml:"from"`
		Password string `yaml:"password"`
		To       string `yaml:"to"`
	} `yaml:"email"`

	SMS struct {
		GatewayAddress string `yaml:"gateway_address"`
		TwilioSID      string `yaml:"twilio_sid"`
		TwilioToken    string `yaml:"twilio_token"`
		TwilioFrom     string `yaml:"twilio_from"`
		TwilioTo       string `yaml:"twilio_to"`
	} `yaml:"sms"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Risk struct {
		MaxRiskPct float64            `yaml:"max_risk_pct"`
		PerSymbol  map[string]float64 `yaml:"per_symbol"`
	} `yaml:"risk"`

	MegaCaps []string `yaml:"mega_caps"`

	PlannedLevels map[string]float64 `yaml:"planned_levels"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file next to the process is loaded first so that
// secrets can stay out of the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("EMAIL_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("EMAIL_TO"); v != "" {
		cfg.Email.To = v
	}
	if v := os.Getenv("SMS_GATEWAY_ADDRESS"); v != "" {
		cfg.SMS.GatewayAddress = v
	}
	if v := os.Getenv("TWILIO_SID"); v != "" {
		cfg.SMS.TwilioSID = v
	}
	if v := os.Getenv("TWILIO_TOKEN"); v != "" {
		cfg.SMS.TwilioToken = v
	}
	if v := os.Getenv("TWILIO_FROM"); v != "" {
		cfg.SMS.TwilioFrom = v
	}
	if v := os.Getenv("TWILIO_TO"); v != "" {
		cfg.SMS.TwilioTo = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("POLL_CRON"); v != "" {
		cfg.Monitor.PollCron = v
	}
	if v := os.Getenv("COOLDOWN_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.CooldownMinutes = mins
		}
	}

	// Defaults
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"SPY", "AAPL", "MSFT", "NVDA", "TSLA"}
	}
	if cfg.Monitor.PollCron == "" {
		cfg.Monitor.PollCron = "0 */3 * * * *"
	}
	if cfg.Monitor.CooldownMinutes == 0 {
		cfg.Monitor.CooldownMinutes = 60
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tradesentry.db"
	}
	if cfg.Risk.MaxRiskPct == 0 {
		cfg.Risk.MaxRiskPct = 0.015
	}
	if len(cfg.MegaCaps) == 0 {
		cfg.MegaCaps = []string{
			"AAPL", "MSFT", "NVDA", "GOOGL", "GOOG", "AMZN", "META", "TSLA", "SPY", "QQQ",
		}
	}

	return cfg, nil
}

// Validate checks that all fields needed to deliver alerts are set.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist is required")
	}
	if c.Email.SMTPHost == "" {
		return fmt.Errorf("email.smtp_host is required")
	}
	if c.Email.From == "" || c.Email.To == "" {
		return fmt.Errorf("email.from and email.to are required")
	}
	if c.Risk.MaxRiskPct <= 0 || c.Risk.MaxRiskPct > 0.1 {
		return fmt.Errorf("risk.max_risk_pct must be in (0, 0.1]")
	}
	return nil
}

// IsMegaCap reports whether the symbol is on the mega-cap allowlist.
func (c *Config) IsMegaCap(symbol string) bool {
	for _, s := range c.MegaCaps {
		if strings.EqualFold(s, symbol) {
			return true
		}
	}
	return false
}

// PlannedLevelFor returns the hand-set watch level for the symbol, 0 if none.
func (c *Config) PlannedLevelFor(symbol string) float64 {
	return c.PlannedLevels[strings.ToUpper(symbol)]
}

// RiskPctFor returns the per-symbol risk cap, falling back to the global one.
func (c *Config) RiskPctFor(symbol string) float64 {
	if pct, ok := c.Risk.PerSymbol[strings.ToUpper(symbol)]; ok && pct > 0 {
		return pct
	}
	return c.Risk.MaxRiskPct
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}
