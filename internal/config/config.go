// Package config loads server configuration from an optional YAML file
// with environment overrides. Precedence: flags (handled in main) over
// environment over file over defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"agencydesk/internal/util"
)

// Config holds everything the daemon needs to start.
type Config struct {
	Addr      string
	DBPath    string
	StaticDir string
	// SessionTTL bounds how long a login token stays valid.
	SessionTTL time.Duration

	// Admin bootstrap: an admin account created at startup when it does
	// not exist yet, so a fresh install is reachable.
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// fileConfig is the YAML shape. Durations are strings ("720h", "30m") and
// parsed after decoding.
type fileConfig struct {
	Addr          string `yaml:"addr"`
	DBPath        string `yaml:"db_path"`
	StaticDir     string `yaml:"static_dir"`
	SessionTTL    string `yaml:"session_ttl"`
	AdminEmail    string `yaml:"admin_email"`
	AdminName     string `yaml:"admin_name"`
	AdminPassword string `yaml:"admin_password"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Addr:       ":8080",
		DBPath:     "data/agencydesk.db",
		StaticDir:  "web/dist",
		SessionTTL: 30 * 24 * time.Hour,
		AdminName:  "Admin",
	}
}

// Load reads the YAML file at path (when path is non-empty) and applies
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.applyFile(fc); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("session_ttl must be positive")
	}
	return cfg, nil
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.StaticDir != "" {
		c.StaticDir = fc.StaticDir
	}
	if fc.AdminEmail != "" {
		c.AdminEmail = fc.AdminEmail
	}
	if fc.AdminName != "" {
		c.AdminName = fc.AdminName
	}
	if fc.AdminPassword != "" {
		c.AdminPassword = fc.AdminPassword
	}
	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("parse session_ttl: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Addr = util.EnvOrDefault("AGENCYDESK_ADDR", c.Addr)
	c.DBPath = util.EnvOrDefault("AGENCYDESK_DB_PATH", c.DBPath)
	c.StaticDir = util.EnvOrDefault("AGENCYDESK_STATIC_DIR", c.StaticDir)
	c.AdminEmail = util.EnvOrDefault("AGENCYDESK_ADMIN_EMAIL", c.AdminEmail)
	c.AdminName = util.EnvOrDefault("AGENCYDESK_ADMIN_NAME", c.AdminName)
	c.AdminPassword = util.EnvOrDefault("AGENCYDESK_ADMIN_PASSWORD", c.AdminPassword)

	if raw := os.Getenv("AGENCYDESK_SESSION_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse AGENCYDESK_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}
