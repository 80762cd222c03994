package jumptube

import (
	"testing"
	"time"

	"github.com/kbukum/jumptube/transcription"
)

func TestConfig_Defaults(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "yt-key")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	if cfg.Name != ServiceName {
		t.Fatalf("expected name %q, got %q", ServiceName, cfg.Name)
	}
	if cfg.Search.DefaultTopK != 5 || cfg.Search.RequestTimeout != 15*time.Minute {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Store.BuildTimeout != 15*time.Minute || cfg.Store.MaxEntries != 0 {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Transcription.Engine != transcription.EngineWhisper || cfg.Transcription.Whisper.Model != "tiny.en" {
		t.Fatalf("unexpected transcription defaults: %+v", cfg.Transcription)
	}
	if cfg.Catalog.APIKey != "yt-key" {
		t.Fatalf("expected catalog key from env, got %q", cfg.Catalog.APIKey)
	}
	if cfg.Summarizer.LLM.APIKey != "gem-key" || cfg.Summarizer.LLM.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected summarizer config: %+v", cfg.Summarizer.LLM)
	}
	if cfg.Transcription.OpenAI.APIKey != "oa-key" {
		t.Fatalf("expected openai key from env, got %q", cfg.Transcription.OpenAI.APIKey)
	}
}

func TestConfig_ExplicitKeysWin(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "env-key")

	cfg := Config{}
	cfg.Catalog.APIKey = "file-key"
	cfg.ApplyDefaults()
	if cfg.Catalog.APIKey != "file-key" {
		t.Fatalf("expected explicit key to win, got %q", cfg.Catalog.APIKey)
	}
}

func TestConfig_ValidateSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative store bound", func(c *Config) { c.Store.MaxEntries = -1 }},
		{"unknown engine", func(c *Config) { c.Transcription.Engine = "nope" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
