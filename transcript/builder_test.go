package transcript

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/jumptube/audio"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/transcription"
)

type fakeExtractor struct {
	pcm   audio.PCM
	err   error
	calls int
}

func (f *fakeExtractor) Extract(context.Context, string) (audio.PCM, error) {
	f.calls++
	return f.pcm, f.err
}

type fakeEngine struct {
	out   []transcription.Utterance
	err   error
	calls int
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) IsAvailable(context.Context) bool { return true }
func (f *fakeEngine) Execute(context.Context, audio.PCM) ([]transcription.Utterance, error) {
	f.calls++
	return f.out, f.err
}

func TestBuilderBuild(t *testing.T) {
	ex := &fakeExtractor{pcm: audio.PCM{Samples: make([]float32, 10), SampleRate: audio.SampleRate}}
	eng := &fakeEngine{out: []transcription.Utterance{{Start: 3.4, Text: " talk about goroutines"}}}
	b := NewBuilder(ex, eng, logger.Nop())

	text, err := b.Build(context.Background(), "ref")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if text != "[3] talk about goroutines" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name        string
		extractErr  error
		engineErr   error
		engineOut   []transcription.Utterance
		code        apperrors.ErrorCode
		engineCalls int
	}{
		{name: "tool missing", extractErr: apperrors.ToolNotFound("yt-dlp"), code: apperrors.ErrCodeToolNotFound},
		{name: "extraction", extractErr: apperrors.Extraction("transcode", "no audio"), code: apperrors.ErrCodeExtraction},
		{name: "engine unavailable", engineErr: apperrors.EngineUnavailable("fake"), code: apperrors.ErrCodeEngineUnavailable, engineCalls: 1},
		{name: "engine fault", engineErr: errors.New("segfault"), code: apperrors.ErrCodeTranscription, engineCalls: 1},
		{name: "no speech", engineOut: []transcription.Utterance{{Start: 0, Text: " "}}, code: apperrors.ErrCodeTranscription, engineCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &fakeExtractor{err: tt.extractErr}
			eng := &fakeEngine{out: tt.engineOut, err: tt.engineErr}
			_, err := NewBuilder(ex, eng, logger.Nop()).Build(context.Background(), "ref")
			if !apperrors.HasCode(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if eng.calls != tt.engineCalls {
				t.Fatalf("expected %d engine calls, got %d", tt.engineCalls, eng.calls)
			}
		})
	}
}

func TestStoreWithBuilderSkipsPipelineOnHit(t *testing.T) {
	ex := &fakeExtractor{}
	eng := &fakeEngine{out: []transcription.Utterance{{Start: 1, Text: "cached"}}}
	s := NewStore(StoreConfig{}, NewBuilder(ex, eng, logger.Nop()).Build, logger.Nop(), nil)

	for i := 0; i < 3; i++ {
		if _, err := s.Get(context.Background(), "ref"); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if ex.calls != 1 || eng.calls != 1 {
		t.Fatalf("expected one extraction and one transcription, got %d and %d", ex.calls, eng.calls)
	}
}
