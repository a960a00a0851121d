// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional YAML file and FARE_* environment variables on top.
// - Errors from providers are wrapped with this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// ModelPath points at the persisted model artifact. The server refuses to
	// start when it is missing or unreadable.
	ModelPath string `koanf:"model_path"`

	// CurrencySymbol prefixes displayed prices.
	CurrencySymbol string `koanf:"currency_symbol"`

	// MaxBodyBytes caps request bodies on the API and form endpoints.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSOrigins lists origins allowed to call the JSON API from a browser.
	CORSOrigins []string `koanf:"cors_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8501",
		ModelPath:       "flight_price_model.json",
		CurrencySymbol:  "₹",
		MaxBodyBytes:    1 << 16,
		CORSOrigins:     []string{"*"},
		ShutdownTimeout: 30 * time.Second,
	}
}
