package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/llm"
	"github.com/kbukum/jumptube/logger"
)

type stubTranscripts struct {
	text string
	err error
}

func (s stubTranscripts) Get(context.Context, string) (string, error) { return s.text, s.err }

type stubModel struct {
	got llm.CompletionRequest
	out string
	err error
}

func (m *stubModel) Name() string                     { return "stub" }
func (m *stubModel) IsAvailable(context.Context) bool { return true }
func (m *stubModel) Execute(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
	m.got = req
	return llm.CompletionResponse{Content: m.out}, m.err
}

func TestSummarize(t *testing.T) {
	model := &stubModel{out: "A talk about channels."}
	s := New(stubTranscripts{text: "[0] channels are pipes"}, model, logger.Nop())

	res := s.Summarize(context.Background(), "https://youtu.be/abc")
	if res.Err != nil || res.Summary != "A talk about channels." {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(model.got.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(model.got.Messages))
	}
	prompt := model.got.Messages[0].Content
	if !strings.HasPrefix(prompt, Prompt) || !strings.HasSuffix(prompt, "[0] channels are pipes") {
		t.Fatalf("unexpected prompt %q", prompt)
	}
}

func TestSummarizeSentinels(t *testing.T) {
	tests := []struct {
		name        string
		transcripts stubTranscripts
		model       llm.Completer
		want        string
	}{
		{
			name:        "transcript failed",
			transcripts: stubTranscripts{err: apperrors.Extraction("resolve", "private video")},
			model:       &stubModel{out: "unused"},
			want:        TranscriptionFailed,
		},
		{
			name:        "model failed",
			transcripts: stubTranscripts{text: "[0] hi"},
			model:       &stubModel{err: errors.New("quota")},
			want:        SummarizationFailed,
		},
		{
			name:        "empty model output",
			transcripts: stubTranscripts{text: "[0] hi"},
			model:       &stubModel{},
			want:        SummarizationFailed,
		},
		{
			name:        "no model configured",
			transcripts: stubTranscripts{text: "[0] hi"},
			want:        SummarizationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.transcripts, tt.model, logger.Nop()).Summarize(context.Background(), "ref")
			if res.Summary != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, res.Summary)
			}
		})
	}
}
