package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ModeGateway = "gateway"
	ModeHTTP    = "http"
)

var (
	ErrMissingToken     = errors.New("discord token is required (EASYMOD_DISCORD_TOKEN or EASYMOD_DISCORD_TOKEN_FILE)")
	ErrMissingPublicKey = errors.New("EASYMOD_PUBLIC_KEY is required in http mode")
	ErrMissingAppID     = errors.New("EASYMOD_APPLICATION_ID is required")
	ErrInvalidMode      = errors.New("mode must be gateway or http")
)

type Config struct {
	DiscordToken     string        `env:"EASYMOD_DISCORD_TOKEN"`
	DiscordTokenFile string        `env:"EASYMOD_DISCORD_TOKEN_FILE"`
	ApplicationID    string        `env:"EASYMOD_APPLICATION_ID"`
	PublicKey        string        `env:"EASYMOD_PUBLIC_KEY"`
	Mode             string        `env:"EASYMOD_MODE" envDefault:"gateway"`
	HTTPAddr         string        `env:"EASYMOD_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr      string        `env:"EASYMOD_METRICS_ADDR" envDefault:":3998"`
	DBDSN            string        `env:"EASYMOD_DB_DSN"`
	DevGuildID       string        `env:"EASYMOD_DEV_GUILD_ID"`
	LogLevel         string        `env:"EASYMOD_LOG_LEVEL" envDefault:"info"`
	SignatureMaxSkew time.Duration `env:"EASYMOD_SIGNATURE_MAX_SKEW" envDefault:"5m"`
	OpsAllowOrigin   string        `env:"EASYMOD_OPS_ALLOW_ORIGIN" envDefault:"*"`
}

// Load parses the environment and resolves the bot token.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.resolveToken(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveToken reads the token file when no token was given inline.
func (c *Config) resolveToken() error {
	c.DiscordToken = strings.TrimSpace(c.DiscordToken)
	if c.DiscordToken != "" || c.DiscordTokenFile == "" {
		return nil
	}
	b, err := os.ReadFile(c.DiscordTokenFile)
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	c.DiscordToken = strings.TrimSpace(string(b))
	return nil
}

// Validate checks what the serve command needs for the configured mode.
func (c Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	switch c.Mode {
	case ModeGateway:
	case ModeHTTP:
		if strings.TrimSpace(c.PublicKey) == "" {
			return ErrMissingPublicKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	return nil
}

// ValidateRegistration checks what command registration needs.
func (c Config) ValidateRegistration() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	if strings.TrimSpace(c.ApplicationID) == "" {
		return ErrMissingAppID
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
