package audio

import (
	"fmt"
	"time"
)

// Config names the two external tools and bounds their lifetimes.
type Config struct {
	// ResolverBinary turns a video reference into a direct audio URL.
	ResolverBinary string `yaml:"resolver_binary" mapstructure:"resolver_binary"`
	// ResolverFormat is passed as -f to the resolver.
	ResolverFormat string `yaml:"resolver_format" mapstructure:"resolver_format"`
	// TranscoderBinary decodes the audio URL into raw PCM.
	TranscoderBinary string `yaml:"transcoder_binary" mapstructure:"transcoder_binary"`
	// ResolveTimeout bounds the resolver call on its own.
	ResolveTimeout time.Duration `yaml:"resolve_timeout" mapstructure:"resolve_timeout"`
	// GracePeriod is the SIGTERM to SIGKILL delay on cancellation.
	GracePeriod time.Duration `yaml:"grace_period" mapstructure:"grace_period"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ResolverBinary == "" {
		c.ResolverBinary = "yt-dlp"
	}
	if c.ResolverFormat == "" {
		c.ResolverFormat = "bestaudio"
	}
	if c.TranscoderBinary == "" {
		c.TranscoderBinary = "ffmpeg"
	}
	if c.ResolveTimeout == 0 {
		c.ResolveTimeout = 60 * time.Second
	}
	if c.GracePeriod == 0 {
		c.GracePeriod = 3 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ResolverBinary == "" || c.TranscoderBinary == "" {
		return fmt.Errorf("audio: resolver_binary and transcoder_binary are required")
	}
	if c.ResolveTimeout < 0 || c.GracePeriod < 0 {
		return fmt.Errorf("audio: timeouts must not be negative")
	}
	return nil
}
