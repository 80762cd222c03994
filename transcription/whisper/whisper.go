// Package whisper is the faster-whisper sidecar engine. The sidecar takes
// a WAV upload on POST /transcribe and answers with timestamped segments.
package whisper

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kbukum/jumptube/audio"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/httpclient"
	"github.com/kbukum/jumptube/transcription"
)

// Name is the registry name of this engine.
const Name = transcription.EngineWhisper

// Engine calls a faster-whisper HTTP sidecar.
type Engine struct {
	cfg    transcription.WhisperConfig
	client *httpclient.Client
}

// New creates the engine.
func New(cfg transcription.WhisperConfig) (*Engine, error) {
	client, err := httpclient.New(httpclient.Config{BaseURL: cfg.URL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, client: client}, nil
}

// Factory registers the engine with a transcription registry.
func Factory(cfg transcription.Config) (transcription.Engine, error) {
	e, err := New(cfg.Whisper)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Name() string { return Name }

// IsAvailable probes GET /health on the sidecar.
func (e *Engine) IsAvailable(ctx context.Context) bool {
	resp, err := e.client.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/health"})
	return err == nil && resp.IsSuccess()
}

type response struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []segment `json:"segments"`
}

type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Execute uploads pcm as WAV and returns the sidecar's segments in order.
func (e *Engine) Execute(ctx context.Context, pcm audio.PCM) ([]transcription.Utterance, error) {
	fields := map[string]string{
		"model":        e.cfg.Model,
		"beam_size":    strconv.Itoa(e.cfg.BeamSize),
		"device":       e.cfg.Device,
		"compute_type": e.cfg.ComputeType,
	}
	if e.cfg.Language != "" {
		fields["language"] = e.cfg.Language
	}

	resp, err := httpclient.DoJSON[response](ctx, e.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    "audio.wav",
				ContentType: "audio/wav",
				Data:        transcription.EncodeWAV(pcm),
			}},
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	out := make([]transcription.Utterance, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		out = append(out, transcription.Utterance{Start: s.Start, End: s.End, Text: s.Text})
	}
	return out, nil
}

func classify(err error) error {
	e, ok := httpclient.AsError(err)
	if !ok {
		return apperrors.Transcription(Name, err.Error()).WithCause(err)
	}
	switch e.Code {
	case httpclient.ErrCodeConnection, httpclient.ErrCodeTimeout, httpclient.ErrCodeRateLimit:
		return apperrors.EngineUnavailable(Name).WithCause(err)
	case httpclient.ErrCodeServer:
		if e.StatusCode == http.StatusServiceUnavailable {
			return apperrors.EngineUnavailable(Name).WithCause(err)
		}
	}
	return apperrors.Transcription(Name, e.Message).WithCause(err)
}
