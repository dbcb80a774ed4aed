package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.Transport {
	case "stdio", "http":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.transport must be \"stdio\" or \"http\", got %q", c.Server.Transport))
	}

	if c.Server.Transport == "http" && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	if c.OpenAI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("openai.base_url is required"))
	}

	if c.OpenAI.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("openai.timeout must be > 0, got %v", c.OpenAI.Timeout))
	}

	if c.OpenAI.MinInterval < 0 {
		errs = append(errs, fmt.Errorf("openai.min_interval must be >= 0, got %v", c.OpenAI.MinInterval))
	}

	if c.OpenAI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("openai.max_retries must be >= 0, got %d", c.OpenAI.MaxRetries))
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		errs = append(errs, fmt.Errorf("metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
