// Package config provides unified configuration for the relay server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (RELAY_ prefix, OPENAI_API_KEY)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the relay server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds the inbound MCP transport settings.
type ServerConfig struct {
	Transport string `yaml:"transport"` // "stdio" or "http", default: "stdio"
	Port      int    `yaml:"port"`      // http transport only, default: 8080
}

// OpenAIConfig holds outbound dispatcher settings.
type OpenAIConfig struct {
	BaseURL     string   `yaml:"base_url"`     // default: https://api.openai.com
	APIKey      string   `yaml:"api_key"`      // falls back to OPENAI_API_KEY
	APIKeyFile  string   `yaml:"api_key_file"` // _file variant for api_key
	Timeout     Duration `yaml:"timeout"`      // default: 120s
	MinInterval Duration `yaml:"min_interval"` // default: 100ms
	MaxRetries  int      `yaml:"max_retries"`  // default: 3
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// MetricsConfig holds Prometheus metrics endpoint settings
// (http transport only).
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns the built-in default configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8080,
		},
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com",
			Timeout:     Duration(120 * time.Second),
			MinInterval: Duration(100 * time.Millisecond),
			MaxRetries:  3,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
