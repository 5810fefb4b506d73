// Package config loads service settings from flags, environment, an optional
// .env file and an optional YAML config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string         `mapstructure:"port"`
	DatabaseURL  string         `mapstructure:"database-url"`
	RedisURL     string         `mapstructure:"redis-url"`
	StaticTokens []string       `mapstructure:"static-tokens"`
	JWTSecret    string         `mapstructure:"jwt-hmac-secret"`
	Company      string         `mapstructure:"company"`
	Timezone     string         `mapstructure:"timezone"`
	SeedFile     string         `mapstructure:"seed-file"`
	Google       GoogleConfig   `mapstructure:"google"`
	Dialogue     DialogueConfig `mapstructure:"dialogue"`
	Janitor      JanitorConfig  `mapstructure:"janitor"`
	Speech       SpeechConfig   `mapstructure:"speech"`
	JSON         bool           `mapstructure:"json"`
	Debug        bool           `mapstructure:"debug"`

	// Location is Timezone resolved by Load.
	Location *time.Location `mapstructure:"-"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
	RedirectURL  string `mapstructure:"redirect-url"`
	TokenFile    string `mapstructure:"token-file"`
	CalendarID   string `mapstructure:"calendar-id"`
}

type DialogueConfig struct {
	MaxAlternatives int `mapstructure:"max-alternatives"`
	// MaxSlotDistance rejects a closest slot further away than this. Zero accepts any.
	MaxSlotDistance time.Duration `mapstructure:"max-slot-distance"`
	// InterviewLength is the calendar event length for a booked slot.
	InterviewLength time.Duration `mapstructure:"interview-length"`
}

type JanitorConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type SpeechConfig struct {
	TTSURL string `mapstructure:"tts-url"`
}

var defaults = map[string]any{
	"port":                       "8080",
	"database-url":               "",
	"redis-url":                  "",
	"static-tokens":              []string{},
	"jwt-hmac-secret":            "",
	"company":                    "Company",
	"timezone":                   "UTC",
	"seed-file":                  "",
	"google.client-id":           "",
	"google.client-secret":       "",
	"google.redirect-url":        "",
	"google.token-file":          "",
	"google.calendar-id":         "primary",
	"dialogue.max-alternatives":  3,
	"dialogue.max-slot-distance": "0s",
	"dialogue.interview-length":  "1h",
	"janitor.schedule":           "@every 1h",
	"speech.tts-url":             "",
	"json":                       false,
	"debug":                      false,
}

// Prepare registers defaults and environment bindings on v. Keys map to
// environment variables by upper-casing and replacing '-' and '.' with '_',
// so google.client-id is read from GOOGLE_CLIENT_ID.
func Prepare(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads .env (when present) and the optional config file into v and
// returns the validated configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	Prepare(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port %q is not a number", c.Port)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.Dialogue.MaxAlternatives < 1 {
		return fmt.Errorf("dialogue.max-alternatives must be at least 1, got %d", c.Dialogue.MaxAlternatives)
	}
	if c.Dialogue.MaxSlotDistance < 0 {
		return fmt.Errorf("dialogue.max-slot-distance must not be negative")
	}
	if c.Dialogue.InterviewLength <= 0 {
		return fmt.Errorf("dialogue.interview-length must be positive")
	}
	if c.Janitor.Schedule != "" {
		if _, err := cron.ParseStandard(c.Janitor.Schedule); err != nil {
			return fmt.Errorf("janitor.schedule %q: %w", c.Janitor.Schedule, err)
		}
	}

	tokens := c.StaticTokens[:0]
	for _, t := range c.StaticTokens {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	c.StaticTokens = tokens
	return nil
}
