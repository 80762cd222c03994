package llm

import (
	"fmt"
	"time"
)

// Config selects a dialect and its connection settings.
type Config struct {
	Dialect     string        `mapstructure:"dialect"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// MaxAttempts includes the first call.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = "gemini"
	}
	if c.Model == "" && c.Dialect == "gemini" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("llm.dialect is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm.model is required for dialect %q", c.Dialect)
	}
	return nil
}
