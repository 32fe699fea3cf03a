package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "GATEWAYD_"
	configEnvVar = "GATEWAYD_CONFIG_PATH"
)

// Loader builds a Config from defaults, an optional YAML file, and
// environment variables, each overriding the last.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// NewLoader builds a Loader with gatewayd's default search paths.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"gatewayd.yaml",
			"config/gatewayd.yaml",
			"/etc/gatewayd/gatewayd.yaml",
		},
		envPrefix: envPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoaderOption customizes a Loader before Load is called.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the file search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// Load layers defaults, file, and env and unmarshals the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	if err := l.loadConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "config: no config file loaded: %v\n", err)
	}
	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"app.environment": "development",

		"admin.addr":             ":7070",
		"admin.shutdown_timeout": "5s",

		"store.dsn":            "sqlite://gatewayd.db",
		"store.auto_migrate":   true,
		"store.max_open_conns": 10,
		"store.max_idle_conns": 5,

		"loader.strict_duplicate_server": false,

		"log.level":  "info",
		"log.format": "console",

		"metrics.enabled": true,
	}
	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if path := os.Getenv(configEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return l.k.Load(file.Provider(path), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return l.k.Load(file.Provider(abs), yaml.Parser())
		}
	}
	return fmt.Errorf("no config file found in %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, l.envPrefix)), "_", ".",
		)
	}), nil)
}

// Load is a convenience function using default search paths.
func Load() (*Config, error) {
	return NewLoader().Load()
}
