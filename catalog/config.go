package catalog

import (
	"fmt"
	"time"
)

const (
	DefaultMaxResults = 20
	MaxResultsLimit   = 50
)

// Config configures the YouTube Data API client.
type Config struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is requests per second sent upstream; Burst is the bucket size.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	// MaxAttempts includes the first call.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 5
	}
	if c.Burst <= 0 {
		c.Burst = 10
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
}

// Validate checks the configuration. A missing API key is allowed at
// startup; searches then fail with SERVICE_UNAVAILABLE.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	return nil
}

// ClampMaxResults maps n into 1..50; non-positive values use the default.
func ClampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxResultsLimit:
		return MaxResultsLimit
	}
	return n
}
