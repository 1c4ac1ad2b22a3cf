// Package config loads and validates the service configuration.
//
// The file is read once at startup and passed by value into constructors;
// no other package reads environment state. The single hot-reloadable knob
// is logging.level (see Watch).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// Env overrides for credentials, so secrets can stay out of the file.
const (
	EnvToken  = "STREAMALERT_TELEGRAM_TOKEN"
	EnvChatID = "STREAMALERT_TELEGRAM_CHAT_ID"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Filter   FilterConfig   `yaml:"filter"`
	Logging  LoggingConfig  `yaml:"logging"`
	Journal  JournalConfig  `yaml:"journal"`
	Janitor  JanitorConfig  `yaml:"janitor"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`         // default ":8080"
	WebhookPath string `yaml:"webhook_path"` // default "/webhook"
}

// TelegramConfig carries the bot credentials. Token and ChatID are required;
// startup fails without them.
//
// All durations are Go duration strings (e.g. "500ms", "8s", "1m").
type TelegramConfig struct {
	Token          string `yaml:"token"`
	ChatID         int64  `yaml:"chat_id"`
	RequestTimeout string `yaml:"request_timeout"` // default "8s"
	RatePerSec     int    `yaml:"rate_per_sec"`    // default 3
}

type DedupConfig struct {
	TTL string `yaml:"ttl"` // default "24h"; must be > 0
}

// FilterConfig is the optional allow-list policy. Entries may be
// comma-separated inside one list item. Empty lists allow everything.
type FilterConfig struct {
	Enabled    bool     `yaml:"enabled"`
	EventTypes []string `yaml:"event_types"`
	RoomIDs    []string `yaml:"room_ids"`
}

type LoggingConfig struct {
	Level   string      `yaml:"level"`   // default "info"
	Console bool        `yaml:"console"` // default true (see Load)
	File    LoggingFile `yaml:"file"`
}

type LoggingFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// JournalConfig controls the optional delivery audit trail.
// Driver "" or "none" disables it; "sqlite" stores to Path.
type JournalConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	BusyTimeout string `yaml:"busy_timeout"` // sqlite only
	Retention   string `yaml:"retention"`    // default "168h"
}

type JanitorConfig struct {
	Schedule string `yaml:"schedule"` // cron spec or descriptor, default "@hourly"
}

// Load reads, defaults, env-overrides and validates a config file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(path, b)
}

// Parse decodes config bytes strictly: unknown keys are an error so typos
// fail startup instead of silently applying defaults.
func Parse(path string, b []byte) (Config, error) {
	cfg := defaults()

	dec := yaml.NewDecoder(strings.NewReader(string(b)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			WebhookPath: "/webhook",
		},
		Telegram: TelegramConfig{
			RequestTimeout: "8s",
			RatePerSec:     3,
		},
		Dedup:   DedupConfig{TTL: "24h"},
		Logging: LoggingConfig{Level: "info", Console: true},
		Journal: JournalConfig{Driver: "none", Retention: "168h"},
		Janitor: JanitorConfig{Schedule: "@hourly"},
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvChatID)); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
}

// Validate enforces the startup invariants: credentials present, durations
// parseable, dedup TTL strictly positive.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required (or " + EnvToken + ")")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required (or " + EnvChatID + ")")
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		return fmt.Errorf("server.webhook_path %q must start with /", c.Server.WebhookPath)
	}

	if _, err := ParseDurationField("telegram.request_timeout", c.Telegram.RequestTimeout); err != nil {
		return err
	}

	ttl, err := ParseDurationField("dedup.ttl", c.Dedup.TTL)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return errors.New("dedup.ttl must be > 0")
	}

	if _, err := ParseDurationField("journal.busy_timeout", c.Journal.BusyTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("journal.retention", c.Journal.Retention); err != nil {
		return err
	}
	return nil
}

// DedupTTL returns the parsed retention window. Call after Validate.
func (c *Config) DedupTTL() time.Duration {
	d, _ := ParseDurationOrDefault("dedup.ttl", c.Dedup.TTL, 24*time.Hour)
	return d
}

// RequestTimeout returns the parsed outbound send timeout. Call after Validate.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := ParseDurationOrDefault("telegram.request_timeout", c.Telegram.RequestTimeout, 8*time.Second)
	return d
}

// JournalRetention returns how long journal rows are kept. Call after Validate.
func (c *Config) JournalRetention() time.Duration {
	d, _ := ParseDurationOrDefault("journal.retention", c.Journal.Retention, 7*24*time.Hour)
	return d
}

// JournalBusyTimeout returns the sqlite busy timeout (0 keeps the driver default).
func (c *Config) JournalBusyTimeout() time.Duration {
	d, _ := ParseDurationField("journal.busy_timeout", c.Journal.BusyTimeout)
	return d
}
