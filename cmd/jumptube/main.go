// Command jumptube serves video search, in-video search, summaries and
// transcripts over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/jumptube/api"
	"github.com/kbukum/jumptube/bootstrap"
	"github.com/kbukum/jumptube/config"
	"github.com/kbukum/jumptube/jumptube"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/server"
	"github.com/kbukum/jumptube/util"
	"github.com/kbukum/jumptube/version"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "jumptube: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg jumptube.Config
	if err := config.LoadConfig(jumptube.ServiceName, &cfg); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	telemetry := observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, log)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}

	rt, err := jumptube.Wire(&cfg, log, observability.DefaultMetrics())
	if err != nil {
		return err
	}
	for _, c := range rt.Components {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	srv := server.New(cfg.Server, log)
	api.New(rt.Service, log).Register(srv.Engine())
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll, func(context.Context) map[string]any {
		return map[string]any{"cached_transcripts": rt.Store.Len()}
	})
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	log.Info("collaborators configured", logger.Fields(
		logger.FieldEngine, cfg.Transcription.Engine,
		"llm_dialect", cfg.Summarizer.LLM.Dialect,
		"youtube_api_key", util.MaskSecret(cfg.Catalog.APIKey, 4),
		"llm_api_key", util.MaskSecret(cfg.Summarizer.LLM.APIKey, 4),
		"openai_api_key", util.MaskSecret(cfg.Transcription.OpenAI.APIKey, 4),
	))

	return app.Run(ctx)
}
