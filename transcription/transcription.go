// Package transcription is the speech-to-text boundary. An Engine turns
// mono PCM into timestamped utterances; the concrete engines live in the
// whisper and openai subpackages and are selected by name.
package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/jumptube/audio"
	"github.com/kbukum/jumptube/component"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/provider"
)

// Utterance is one timestamped span of recognized speech.
type Utterance struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Engine transcribes PCM audio. Implementations return AppErrors with
// ENGINE_UNAVAILABLE when the backend cannot be reached and
// TRANSCRIPTION_FAILED for any other fault.
type Engine = provider.RequestResponse[audio.PCM, []Utterance]

// Factory builds an engine from the transcription config.
type Factory = provider.Factory[Engine, Config]

// NewRegistry returns an empty engine registry.
func NewRegistry() *provider.Registry[Engine, Config] {
	return provider.NewRegistry[Engine, Config]()
}

// New creates the engine named by cfg.Engine and wraps it with tracing,
// metrics and logging.
func New(reg *provider.Registry[Engine, Config], cfg Config, log *logger.Logger, metrics *observability.Metrics) (Engine, error) {
	engine, err := reg.Create(cfg.Engine, cfg)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	return provider.Chain(
		provider.WithTracing[audio.PCM, []Utterance]("transcription"),
		provider.WithMetrics[audio.PCM, []Utterance](metrics, "transcribe"),
		provider.WithLogging[audio.PCM, []Utterance](log.WithComponent("transcription")),
	)(engine), nil
}

// EngineComponent reports engine reachability on /health.
type EngineComponent struct {
	engine  Engine
	timeout time.Duration
}

// NewEngineComponent wraps an engine for health reporting.
func NewEngineComponent(engine Engine) *EngineComponent {
	return &EngineComponent{engine: engine, timeout: 3 * time.Second}
}

func (c *EngineComponent) Name() string { return "transcription" }
func (c *EngineComponent) Start(context.Context) error { return nil }
func (c *EngineComponent) Stop(context.Context) error { return nil }

// Health is degraded rather than unhealthy when the engine is unreachable;
// cached transcripts can still be searched.
func (c *EngineComponent) Health(ctx context.Context) component.Health {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if c.engine.IsAvailable(ctx) {
		return component.Health{Name: c.Name(), Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusDegraded,
		Message: fmt.Sprintf("engine %q unreachable", c.engine.Name()),
	}
}

// Describe implements component.Describable.
func (c *EngineComponent) Describe() component.Description {
	return component.Description{Name: "Transcription", Type: "engine", Details: c.engine.Name()}
}
