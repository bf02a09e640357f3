package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv    = "ARTICLE_COURIER_CONFIG"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	lookupAPIKeyEnv  = "WORDNIK_API_KEY"
	dbPathEnv        = "COURIER_DB_PATH"
)

var clockExpr = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// Config holds high-level settings required across the application.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Terms     TermConfig      `yaml:"terms"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes the content source to scrape.
type SourceConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	ExcerptLimit   int    `yaml:"excerptLimit"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// LookupConfig describes the dictionary lookup service.
type LookupConfig struct {
	BaseURL         string  `yaml:"baseUrl"`
	APIKey          string  `yaml:"apiKey"`
	RarityThreshold float64 `yaml:"rarityThreshold"`
	MaxDefinitions  int     `yaml:"maxDefinitions"`
	TimeoutSeconds  int     `yaml:"timeoutSeconds"`
}

// TermConfig tunes the candidate-term selection heuristic.
type TermConfig struct {
	Window    int `yaml:"window"`
	Cap       int `yaml:"cap"`
	MinLength int `yaml:"minLength"`
}

// TelegramConfig wires the bot transport.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
}

// SchedulerConfig defines when deliveries and reminders fire.
type SchedulerConfig struct {
	DeliveryTime  string         `yaml:"deliveryTime"`
	ReminderHours []int          `yaml:"reminderHours"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// StorageConfig enables the optional subscription snapshot store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present), applies environment
// overrides, and validates the result. A missing bot token is fatal.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(lookupAPIKeyEnv); v != "" {
		c.Lookup.APIKey = v
	}
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Storage.Path = v
	}
}

func (c *Config) validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (set %s)", telegramTokenEnv)
	}
	if !clockExpr.MatchString(c.Scheduler.DeliveryTime) {
		return fmt.Errorf("deliveryTime must be HH:MM, got %q", c.Scheduler.DeliveryTime)
	}
	if len(c.Scheduler.ReminderHours) == 0 {
		return fmt.Errorf("at least one reminder hour is required")
	}
	for _, hour := range c.Scheduler.ReminderHours {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("reminder hour %d out of range", hour)
		}
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", c.Scheduler.Timezone, err)
	}
	if c.Lookup.RarityThreshold <= 0 {
		return fmt.Errorf("rarityThreshold must be positive, got %v", c.Lookup.RarityThreshold)
	}
	return nil
}

func (c *Config) bindTimezone() {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Source: SourceConfig{
			BaseURL:        "https://www.scientificamerican.com",
			ExcerptLimit:   1000,
			TimeoutSeconds: 20,
		},
		Lookup: LookupConfig{
			BaseURL:         "https://api.wordnik.com/v4",
			RarityThreshold: 1000,
			MaxDefinitions:  3,
			TimeoutSeconds:  10,
		},
		Terms: TermConfig{
			Window:    20,
			Cap:       5,
			MinLength: 5,
		},
		Scheduler: SchedulerConfig{
			DeliveryTime:  "09:30",
			ReminderHours: []int{15, 18, 21},
			Timezone:      defaultTimezone,
			location:      tz,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
