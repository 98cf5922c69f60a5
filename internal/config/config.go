// Package config loads server settings from defaults, an optional YAML file
// and ECOSYSTEM_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. Nested keys use a double
// underscore: ECOSYSTEM_SERVER__ADDR sets server.addr.
const EnvPrefix = "ECOSYSTEM_"

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "ecosystem.yaml"

// Preference backends.
const (
	PrefsMemory = "memory"
	PrefsSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
	Session SessionConfig `yaml:"session" koanf:"session"`
	Prefs   PrefsConfig   `yaml:"prefs" koanf:"prefs"`
	Catalog CatalogConfig `yaml:"catalog" koanf:"catalog"`
	Live    LiveConfig    `yaml:"live" koanf:"live"`
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" koanf:"addr"`
	BaseURL           string        `yaml:"base_url" koanf:"base_url"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" koanf:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}

// SessionConfig controls the signed visitor cookie. An empty SigningKey
// makes the server generate an ephemeral one, which forgets every visitor on
// restart.
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name" koanf:"cookie_name"`
	SigningKey string        `yaml:"signing_key" koanf:"signing_key"`
	Secure     bool          `yaml:"secure" koanf:"secure"`
	MaxAge     time.Duration `yaml:"max_age" koanf:"max_age"`
}

type PrefsConfig struct {
	Backend    string `yaml:"backend" koanf:"backend"`
	SQLitePath string `yaml:"sqlite_path" koanf:"sqlite_path"`
}

// CatalogConfig selects the catalog source. An empty Dir serves the embedded
// data set.
type CatalogConfig struct {
	Dir   string `yaml:"dir" koanf:"dir"`
	Watch bool   `yaml:"watch" koanf:"watch"`
}

type LiveConfig struct {
	Debounce     time.Duration `yaml:"debounce" koanf:"debounce"`
	PingInterval time.Duration `yaml:"ping_interval" koanf:"ping_interval"`
	WriteTimeout time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	ReadLimit    int64         `yaml:"read_limit" koanf:"read_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
			RequestTimeout:    30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Session: SessionConfig{
			CookieName: "ECOSYSTEM_VISITOR",
			MaxAge:     365 * 24 * time.Hour,
		},
		Prefs: PrefsConfig{
			Backend:    PrefsMemory,
			SQLitePath: "var/ecosystem.db",
		},
		Live: LiveConfig{
			Debounce:     200 * time.Millisecond,
			PingInterval: 30 * time.Second,
			WriteTimeout: 10 * time.Second,
			ReadLimit:    4096,
		},
	}
}

// Load reads path when it exists, then overlays the environment. PORT is
// honored for the listen address unless ECOSYSTEM_SERVER__ADDR is set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && !k.Exists("server.addr") {
		cfg.Server.Addr = ":" + port
	}
	return cfg, cfg.Validate()
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Prefs.Backend {
	case PrefsMemory:
	case PrefsSQLite:
		if c.Prefs.SQLitePath == "" {
			return fmt.Errorf("prefs.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid prefs.backend %q: must be one of memory, sqlite", c.Prefs.Backend)
	}
	if c.Catalog.Watch && c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.watch needs catalog.dir")
	}
	if c.Live.Debounce < 0 {
		return fmt.Errorf("live.debounce must be non-negative")
	}
	if c.Live.ReadLimit <= 0 {
		return fmt.Errorf("live.read_limit must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	return nil
}
