package jumptube

import (
	"fmt"
	"os"
	"time"

	"github.com/kbukum/jumptube/audio"
	"github.com/kbukum/jumptube/catalog"
	"github.com/kbukum/jumptube/config"
	"github.com/kbukum/jumptube/llm"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/server"
	"github.com/kbukum/jumptube/transcript"
	"github.com/kbukum/jumptube/transcription"
)

// ServiceName is the default service name and the cmd/ directory searched
// for config.yml.
const ServiceName = "jumptube"

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config          `yaml:"server" mapstructure:"server"`
	Audio         audio.Config           `yaml:"audio" mapstructure:"audio"`
	Transcription transcription.Config   `yaml:"transcription" mapstructure:"transcription"`
	Store         transcript.StoreConfig `yaml:"store" mapstructure:"store"`
	Search        SearchConfig           `yaml:"search" mapstructure:"search"`
	Catalog       catalog.Config         `yaml:"catalog" mapstructure:"catalog"`
	Summarizer    SummarizerConfig       `yaml:"summarizer" mapstructure:"summarizer"`
	Observability observability.Config   `yaml:"observability" mapstructure:"observability"`
}

// SearchConfig bounds in-video search requests.
type SearchConfig struct {
	// RequestTimeout is how long one request waits for its transcript.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// DefaultTopK applies when a request does not name top_k.
	DefaultTopK int `yaml:"default_top_k" mapstructure:"default_top_k"`
}

// SummarizerConfig configures the summary model.
type SummarizerConfig struct {
	LLM llm.Config `yaml:"llm" mapstructure:"llm"`
}

// ApplyDefaults fills unset fields, including API keys from their
// well-known environment variables.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Audio.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Search.ApplyDefaults()
	c.Catalog.ApplyDefaults()
	c.Summarizer.LLM.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Catalog.APIKey == "" {
		c.Catalog.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.Summarizer.LLM.APIKey == "" && c.Summarizer.LLM.Dialect == "gemini" {
		c.Summarizer.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Transcription.OpenAI.APIKey == "" {
		c.Transcription.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Validate},
		{"audio", c.Audio.Validate},
		{"transcription", c.Transcription.Validate},
		{"store", c.Store.Validate},
		{"search", c.Search.Validate},
		{"catalog", c.Catalog.Validate},
		{"summarizer", c.Summarizer.LLM.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// ApplyDefaults fills unset fields.
func (c *SearchConfig) ApplyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 15 * time.Minute
	}
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 5
	}
}

// Validate checks the configuration.
func (c *SearchConfig) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("search.request_timeout must be positive")
	}
	return nil
}
