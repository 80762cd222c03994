package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/jumptube/audio"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/transcription"
)

func newEngine(t *testing.T, url string) *Engine {
	t.Helper()
	cfg := transcription.Config{Whisper: transcription.WhisperConfig{URL: url}}
	cfg.ApplyDefaults()
	e, err := New(cfg.Whisper)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestExecute(t *testing.T) {
	var gotModel, gotBeam, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotBeam = r.FormValue("beam_size")
		if _, hdr, err := r.FormFile("audio"); err == nil {
			gotFile = hdr.Filename
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text": "hello world",
			"segments": []map[string]any{
				{"start": 0.4, "end": 1.9, "text": " hello"},
				{"start": 2.0, "end": 3.1, "text": " world"},
			},
		})
	}))
	defer srv.Close()

	e := newEngine(t, srv.URL)
	out, err := e.Execute(context.Background(), audio.PCM{Samples: make([]float32, 160), SampleRate: audio.SampleRate})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(out) != 2 || out[0].Text != " hello" || out[1].Start != 2.0 {
		t.Fatalf("unexpected utterances: %+v", out)
	}
	if gotModel != "tiny.en" || gotBeam != "5" || gotFile != "audio.wav" {
		t.Fatalf("unexpected upload: model=%q beam=%q file=%q", gotModel, gotBeam, gotFile)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   apperrors.ErrorCode
	}{
		{"server fault", http.StatusInternalServerError, apperrors.ErrCodeTranscription},
		{"overloaded", http.StatusServiceUnavailable, apperrors.ErrCodeEngineUnavailable},
		{"bad request", http.StatusBadRequest, apperrors.ErrCodeTranscription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newEngine(t, srv.URL).Execute(context.Background(), audio.PCM{})
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestUnreachableEngine(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	e := newEngine(t, url)
	if e.IsAvailable(context.Background()) {
		t.Fatal("expected engine to be unavailable")
	}
	_, err := e.Execute(context.Background(), audio.PCM{})
	if !apperrors.HasCode(err, apperrors.ErrCodeEngineUnavailable) {
		t.Fatalf("expected ENGINE_UNAVAILABLE, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if !newEngine(t, srv.URL).IsAvailable(context.Background()) {
		t.Fatal("expected engine to be available")
	}
}
