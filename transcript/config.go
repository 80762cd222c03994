package transcript

import (
	"fmt"
	"time"
)

// StoreConfig bounds the transcript store.
type StoreConfig struct {
	// MaxEntries caps cached transcripts; the oldest is dropped first.
	// Zero keeps every transcript for the life of the process.
	MaxEntries int `mapstructure:"max_entries"`
	// MaxConcurrentBuilds caps distinct videos transcribing at once.
	// Zero is unbounded.
	MaxConcurrentBuilds int `mapstructure:"max_concurrent_builds"`
	// BuildTimeout bounds one extraction plus transcription run.
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
}

// ApplyDefaults fills zero-valued fields.
func (c *StoreConfig) ApplyDefaults() {
	if c.BuildTimeout <= 0 {
		c.BuildTimeout = 15 * time.Minute
	}
}

// Validate checks the configuration.
func (c *StoreConfig) Validate() error {
	if c.MaxEntries < 0 {
		return fmt.Errorf("store.max_entries must not be negative")
	}
	if c.MaxConcurrentBuilds < 0 {
		return fmt.Errorf("store.max_concurrent_builds must not be negative")
	}
	return nil
}
