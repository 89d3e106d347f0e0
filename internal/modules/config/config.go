package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"forex_bot/internal/models"
	strategy "forex_bot/internal/modules/strategy/service"
	"forex_bot/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	defaultConfigFile = "configs/values_local.yaml"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// env overrides, applied after the yaml file.
var envBindings = map[string]string{
	"provider.api_key":         "FCS_API_KEY",
	"provider.base_url":        "FCS_BASE",
	"storage.dsn":              "DATABASE_DSN",
	"telegram.token":           "TELEGRAM_TOKEN",
	"telegram.chat_id":         "TELEGRAM_CHAT_ID",
	"runner.signal_interval_m": "SIGNAL_INTERVAL_MIN",
	"log.level":                "LOG_LEVEL",
	"http.addr":                "HTTP_ADDR",
	"notify.timezone":          "TIMEZONE",
	"notify.owner":             "OWNER_NUMBER",
	"notify.admin":             "ADMIN_NUMBER",
}

type Config struct {
	Provider struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"provider"`

	Strategy struct {
		EMAFast   int            `yaml:"ema_fast"`
		EMASlow   int            `yaml:"ema_slow"`
		RSIPeriod int            `yaml:"rsi_period"`
		Rules     strategy.Rules `yaml:"rules"`
	} `yaml:"strategy"`

	Pairs     []string `yaml:"pairs"`
	Timeframe string   `yaml:"timeframe"`

	Runner struct {
		SignalInterval time.Duration `yaml:"signal_interval"`
		CheckInterval  time.Duration `yaml:"check_interval"`
		RunOnStart     bool          `yaml:"run_on_start"`
		SkipWeekends   bool          `yaml:"skip_weekends"`
		HistoryLimit   int           `yaml:"history_limit"`
		PendingLimit   int           `yaml:"pending_limit"`
		ProbeLimit     int           `yaml:"probe_limit"`
		ProbeInterval  string        `yaml:"probe_interval"`
	} `yaml:"runner"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		DSN      string `yaml:"dsn"`
		MaxConns int32  `yaml:"max_conns"`
	} `yaml:"storage"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Notify struct {
		Brand      string `yaml:"brand"`
		Owner      string `yaml:"owner"`
		Admin      string `yaml:"admin"`
		Timezone   string `yaml:"timezone"`
		OnStopLoss bool   `yaml:"on_stop_loss"`
	} `yaml:"notify"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Tracing tracing.Config `yaml:"tracing"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

// Default is the configuration used when no file overrides a value.
func Default() *Config {
	cfg := &Config{}
	cfg.Provider.BaseURL = "https://fcsapi.com"
	cfg.Provider.Timeout = 10 * time.Second

	cfg.Strategy.EMAFast = 8
	cfg.Strategy.EMASlow = 21
	cfg.Strategy.RSIPeriod = 14
	cfg.Strategy.Rules = strategy.DefaultRules()

	cfg.Pairs = []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD"}
	cfg.Timeframe = string(models.Timeframe15m)

	cfg.Runner.SignalInterval = 15 * time.Minute
	cfg.Runner.CheckInterval = time.Minute
	cfg.Runner.RunOnStart = true
	cfg.Runner.SkipWeekends = true
	cfg.Runner.HistoryLimit = 200
	cfg.Runner.PendingLimit = 100
	cfg.Runner.ProbeLimit = 3
	cfg.Runner.ProbeInterval = string(models.Timeframe1m)

	cfg.Storage.Driver = StorageMemory
	cfg.Storage.MaxConns = 4

	cfg.Notify.Brand = "FOREX SIGNALS"
	cfg.Notify.Timezone = "UTC"

	cfg.HTTP.Addr = ":8080"
	cfg.Log.Level = "info"
	return cfg
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv(configFilePathENV)
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv(newEnv())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func (c *Config) applyEnv(v *viper.Viper) {
	setString := func(key string, dst *string) {
		if s := strings.TrimSpace(v.GetString(key)); s != "" {
			*dst = s
		}
	}
	setString("provider.api_key", &c.Provider.APIKey)
	setString("provider.base_url", &c.Provider.BaseURL)
	setString("telegram.token", &c.Telegram.Token)
	setString("telegram.chat_id", &c.Telegram.ChatID)
	setString("log.level", &c.Log.Level)
	setString("http.addr", &c.HTTP.Addr)
	setString("notify.timezone", &c.Notify.Timezone)
	setString("notify.owner", &c.Notify.Owner)
	setString("notify.admin", &c.Notify.Admin)

	if dsn := strings.TrimSpace(v.GetString("storage.dsn")); dsn != "" {
		c.Storage.DSN = dsn
		c.Storage.Driver = StoragePostgres
	}
	if m := v.GetInt("runner.signal_interval_m"); m > 0 {
		c.Runner.SignalInterval = time.Duration(m) * time.Minute
	}
}

func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider api key is required (FCS_API_KEY)")
	}
	if _, err := models.ParseTimeframe(c.Timeframe); err != nil {
		return err
	}
	if _, err := models.ParseTimeframe(c.Runner.ProbeInterval); err != nil {
		return fmt.Errorf("probe interval: %w", err)
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("at least one pair is required")
	}
	if c.Strategy.EMAFast >= c.Strategy.EMASlow {
		return fmt.Errorf("ema_fast (%d) must be < ema_slow (%d)", c.Strategy.EMAFast, c.Strategy.EMASlow)
	}
	if c.Runner.SignalInterval <= 0 || c.Runner.CheckInterval <= 0 {
		return fmt.Errorf("runner intervals must be positive")
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage dsn is required for the postgres driver (DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := time.LoadLocation(c.Notify.Timezone); err != nil {
		return fmt.Errorf("notify timezone: %w", err)
	}
	return nil
}

func (c *Config) TimeframeValue() models.Timeframe {
	tf, _ := models.ParseTimeframe(c.Timeframe)
	return tf
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Notify.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
