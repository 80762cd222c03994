package transcription

import (
	"fmt"
	"time"
)

const (
	EngineWhisper = "whisper"
	EngineOpenAI  = "openai"
)

// Config selects and configures the transcription engine.
type Config struct {
	// Engine is "whisper" (faster-whisper sidecar) or "openai".
	Engine  string        `mapstructure:"engine"`
	Whisper WhisperConfig `mapstructure:"whisper"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
}

// WhisperConfig configures the faster-whisper HTTP sidecar.
type WhisperConfig struct {
	URL         string        `mapstructure:"url"`
	Model       string        `mapstructure:"model"`
	BeamSize    int           `mapstructure:"beam_size"`
	Language    string        `mapstructure:"language"`
	Device      string        `mapstructure:"device"`
	ComputeType string        `mapstructure:"compute_type"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig configures an OpenAI-compatible transcription API.
type OpenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
	// MaxUpload caps the WAV upload ("25MB" matches OpenAI's audio limit,
	// about 13 minutes of 16 kHz mono). Longer audio is rejected before
	// any request is sent.
	MaxUpload string `mapstructure:"max_upload"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Engine == "" {
		c.Engine = EngineWhisper
	}
	if c.Whisper.URL == "" {
		c.Whisper.URL = "http://localhost:8387"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "tiny.en"
	}
	if c.Whisper.BeamSize <= 0 {
		c.Whisper.BeamSize = 5
	}
	if c.Whisper.Device == "" {
		c.Whisper.Device = "cpu"
	}
	if c.Whisper.ComputeType == "" {
		c.Whisper.ComputeType = "int8"
	}
	if c.Whisper.Timeout <= 0 {
		c.Whisper.Timeout = 10 * time.Minute
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "whisper-1"
	}
	if c.OpenAI.MaxUpload == "" {
		c.OpenAI.MaxUpload = "25MB"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineWhisper:
		if c.Whisper.URL == "" {
			return fmt.Errorf("transcription.whisper.url is required")
		}
	case EngineOpenAI:
		if c.OpenAI.APIKey == "" && c.OpenAI.BaseURL == "" {
			return fmt.Errorf("transcription.openai.api_key is required")
		}
	default:
		return fmt.Errorf("transcription.engine must be %q or %q, got %q", EngineWhisper, EngineOpenAI, c.Engine)
	}
	return nil
}
