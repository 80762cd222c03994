// Package openai transcribes through an OpenAI-compatible audio API
// (whisper-1 by default) using verbose_json segments for timestamps.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/jumptube/audio"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/transcription"
	"github.com/kbukum/jumptube/util"
)

// Name is the registry name of this engine.
const Name = transcription.EngineOpenAI

// DefaultMaxUpload is the audio endpoint's file size limit.
const DefaultMaxUpload = 25 << 20

const wavHeaderSize = 44

// Engine calls the audio transcriptions endpoint.
type Engine struct {
	cfg    transcription.OpenAIConfig
	client *goopenai.Client
}

// New creates the engine.
func New(cfg transcription.OpenAIConfig) *Engine {
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Engine{cfg: cfg, client: goopenai.NewClientWithConfig(clientConfig)}
}

// Factory registers the engine with a transcription registry.
func Factory(cfg transcription.Config) (transcription.Engine, error) {
	return New(cfg.OpenAI), nil
}

func (e *Engine) Name() string { return Name }

// IsAvailable lists models as a cheap authenticated probe.
func (e *Engine) IsAvailable(ctx context.Context) bool {
	_, err := e.client.ListModels(ctx)
	return err == nil
}

// Execute uploads pcm as WAV and maps the verbose segments to utterances.
func (e *Engine) Execute(ctx context.Context, pcm audio.PCM) ([]transcription.Utterance, error) {
	limit := util.ParseSize(e.cfg.MaxUpload, DefaultMaxUpload)
	if size := int64(wavHeaderSize + 2*len(pcm.Samples)); size > limit {
		return nil, apperrors.Transcription(Name, fmt.Sprintf(
			"audio of %s is %d bytes as WAV, over the %d byte upload limit", pcm.Duration().Round(time.Second), size, limit))
	}
	resp, err := e.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    e.cfg.Model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(transcription.EncodeWAV(pcm)),
		Language: e.cfg.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, classify(err)
	}

	out := make([]transcription.Utterance, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		out = append(out, transcription.Utterance{Start: s.Start, End: s.End, Text: s.Text})
	}
	if len(out) == 0 && resp.Text != "" {
		out = append(out, transcription.Utterance{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	return out, nil
}

func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests,
			apiErr.HTTPStatusCode == http.StatusServiceUnavailable:
			return apperrors.EngineUnavailable(Name).WithCause(err)
		}
		return apperrors.Transcription(Name, apiErr.Message).WithCause(err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= http.StatusInternalServerError || reqErr.HTTPStatusCode == 0 {
			return apperrors.EngineUnavailable(Name).WithCause(err)
		}
		return apperrors.Transcription(Name, reqErr.Error()).WithCause(err)
	}
	// Transport failures surface as plain errors.
	return apperrors.EngineUnavailable(Name).WithCause(err)
}
