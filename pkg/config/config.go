// Package config defines the stubd server configuration and its file loader.
package config

import (
	"fmt"
	"time"
)

// Defaults applied when a field is absent from flags and config files.
const (
	DefaultHTTPPort     = 8080
	DefaultReadTimeout  = 30 // seconds
	DefaultWriteTimeout = 30 // seconds
	DefaultTimeoutDelay = "10s"
	DefaultTimeoutUnit  = "1s"
)

// ServerConfig holds the runtime configuration of the stubd server.
// Durations are strings in time.ParseDuration syntax so they read
// naturally in YAML.
type ServerConfig struct {
	// HTTPPort is the port the HTTP server listens on.
	HTTPPort int `json:"httpPort" yaml:"httpPort"`

	// ReadTimeout is the HTTP server read timeout in seconds.
	ReadTimeout int `json:"readTimeout" yaml:"readTimeout"`

	// WriteTimeout is the HTTP server write timeout in seconds. It must
	// exceed the simulated timeout delay or suspended responses get cut
	// off before they are written.
	WriteTimeout int `json:"writeTimeout" yaml:"writeTimeout"`

	// TimeoutDelay is the suspension applied to error=timeout requests.
	TimeoutDelay string `json:"timeoutDelay" yaml:"timeoutDelay"`

	// TimeoutUnit is the duration of one unit in body timeout
	// directives ({"control":{"timeout": N}} suspends N units).
	TimeoutUnit string `json:"timeoutUnit" yaml:"timeoutUnit"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// LogFormat is the log output format (text, json).
	LogFormat string `json:"logFormat" yaml:"logFormat"`
}

// Default returns a ServerConfig populated with defaults.
func Default() *ServerConfig {
	return &ServerConfig{
		HTTPPort:     DefaultHTTPPort,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		TimeoutDelay: DefaultTimeoutDelay,
		TimeoutUnit:  DefaultTimeoutUnit,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Validate checks the configuration for values that cannot be served.
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("httpPort must be between 1 and 65535, got %d", c.HTTPPort)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("readTimeout must be >= 0, got %d", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("writeTimeout must be >= 0, got %d", c.WriteTimeout)
	}
	if _, err := c.Delay(); err != nil {
		return fmt.Errorf("invalid timeoutDelay: %w", err)
	}
	if _, err := c.Unit(); err != nil {
		return fmt.Errorf("invalid timeoutUnit: %w", err)
	}
	return nil
}

// Delay returns the parsed simulated-timeout delay, falling back to the
// default when unset.
func (c *ServerConfig) Delay() (time.Duration, error) {
	return parseDuration(c.TimeoutDelay, DefaultTimeoutDelay)
}

// Unit returns the parsed directive time unit, falling back to the
// default when unset.
func (c *ServerConfig) Unit() (time.Duration, error) {
	return parseDuration(c.TimeoutUnit, DefaultTimeoutUnit)
}

func parseDuration(raw, fallback string) (time.Duration, error) {
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", d)
	}
	return d, nil
}
