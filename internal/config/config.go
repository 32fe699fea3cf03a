// Package config defines gatewayd's layered configuration: defaults,
// then an optional YAML file, then environment variables, each layer
// overriding the last. The loader shape (koanf defaults -> file ->
// env) is grounded in pkg/config/loader.go from the logistics example;
// the struct shape is gatewayd's own.
package config

import "time"

// Config is the top-level configuration structure, unmarshaled from
// koanf with `koanf` struct tags.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Admin   AdminConfig   `koanf:"admin"`
	Store   StoreConfig   `koanf:"store"`
	Loader  LoaderConfig  `koanf:"loader"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// AppConfig holds identity used throughout logging and metrics.
type AppConfig struct {
	UUID        string `koanf:"uuid"` // the server row this instance loads
	Environment string `koanf:"environment"`
}

// AdminConfig configures the operational HTTP plane (internal/admin).
type AdminConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig configures the configuration-backing database
// (internal/store).
type StoreConfig struct {
	DSN          string `koanf:"dsn"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// LoaderConfig configures internal/loader's behavior.
type LoaderConfig struct {
	StrictDuplicateServer bool `koanf:"strict_duplicate_server"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // console, json
}

// MetricsConfig toggles the /metrics endpoint. Collectors are always
// registered and updated; this only controls whether /metrics is
// exposed.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// IsDevelopment reports whether App.Environment names a dev-like
// environment (an empty value counts as one). The logging encoder is
// chosen from Log.Format, not from this.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev" || c.App.Environment == ""
}
