package jumptube

import (
	"fmt"

	"github.com/kbukum/jumptube/audio"
	"github.com/kbukum/jumptube/catalog"
	"github.com/kbukum/jumptube/component"
	"github.com/kbukum/jumptube/llm"
	"github.com/kbukum/jumptube/llm/gemini"
	"github.com/kbukum/jumptube/llm/ollama"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/provider"
	"github.com/kbukum/jumptube/summarize"
	"github.com/kbukum/jumptube/transcript"
	"github.com/kbukum/jumptube/transcription"
	"github.com/kbukum/jumptube/transcription/openai"
	"github.com/kbukum/jumptube/transcription/whisper"
)

// Runtime is the assembled service plus the components whose lifecycle
// and health the application manages.
type Runtime struct {
	Service    *Service
	Store      *transcript.Store
	Components []component.Component
}

// Engines returns a registry holding every built-in transcription engine.
func Engines() *provider.Registry[transcription.Engine, transcription.Config] {
	reg := transcription.NewRegistry()
	reg.Register(whisper.Name, whisper.Factory)
	reg.Register(openai.Name, openai.Factory)
	return reg
}

func init() {
	llm.RegisterDialect(gemini.Dialect{})
	llm.RegisterDialect(ollama.Dialect{})
}

// Wire builds the pipeline from cfg: extractor and engine feed the
// transcript store, which in-video search, summarization and the
// transcript view share.
func Wire(cfg *Config, log *logger.Logger, metrics *observability.Metrics) (*Runtime, error) {
	if log == nil {
		log = logger.Nop()
	}

	extractor := audio.NewExtractor(cfg.Audio, log)
	engine, err := transcription.New(Engines(), cfg.Transcription, log, metrics)
	if err != nil {
		return nil, err
	}
	builder := transcript.NewBuilder(extractor, engine, log)
	store := transcript.NewStore(cfg.Store, builder.Build, log, metrics)

	videos, err := catalog.New(cfg.Catalog, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	model, err := llm.New(cfg.Summarizer.LLM, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	summarizer := summarize.New(store, model, log)

	return &Runtime{
		Service: NewService(cfg.Search, store, videos, summarizer, log, metrics),
		Store:   store,
		Components: []component.Component{
			audio.NewToolsComponent(cfg.Audio, log),
			transcription.NewEngineComponent(engine),
			transcript.NewStoreComponent(store),
		},
	}, nil
}
