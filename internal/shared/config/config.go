package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel string

	DatabaseURL      string
	DatabaseMaxConns int32

	EncryptionKey string

	Telegram TelegramConfig
}

// TelegramConfig configures the staff notifier. An empty token disables it.
type TelegramConfig struct {
	BotToken       string
	StaffChannelID int64
	Debug          bool
}

// Enabled reports whether staff notifications should be sent.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != ""
}

// IsDev reports whether human-readable logs are wanted.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

var bindings = map[string]string{
	"app.env":                   "APP_ENV",
	"log.level":                 "LOG_LEVEL",
	"database.url":              "DATABASE_URL",
	"database.max_conns":        "DATABASE_MAX_CONNS",
	"encryption.key":            "ENCRYPTION_KEY",
	"telegram.token":            "TELEGRAM_BOT_TOKEN",
	"telegram.staff_channel_id": "TELEGRAM_STAFF_CHANNEL_ID",
	"telegram.debug":            "TELEGRAM_DEBUG",
}

// Load loads configuration from the .env file and environment variables.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration into v. Flags bound to v beforehand take
// precedence over the environment.
func LoadFrom(v *viper.Viper) (*Config, error) {
	// A missing .env is fine, OS-set env vars are used instead.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.max_conns", 10)

	cfg := Config{
		AppEnv:           v.GetString("app.env"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		DatabaseURL:      v.GetString("database.url"),
		DatabaseMaxConns: v.GetInt32("database.max_conns"),
		EncryptionKey:    v.GetString("encryption.key"),
		Telegram: TelegramConfig{
			BotToken:       v.GetString("telegram.token"),
			StaffChannelID: v.GetInt64("telegram.staff_channel_id"),
			Debug:          v.GetBool("telegram.debug"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set in environment or .env file")
	}

	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
	}

	if c.DatabaseMaxConns < 0 {
		return fmt.Errorf("DATABASE_MAX_CONNS must not be negative, got %d", c.DatabaseMaxConns)
	}

	if c.Telegram.Enabled() && c.Telegram.StaffChannelID == 0 {
		return errors.New("TELEGRAM_STAFF_CHANNEL_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}
