// Package summarize produces a short LLM summary of a video's transcript.
// It shares the transcript store with in-video search, so a video that was
// already searched is summarized without re-transcribing.
package summarize

import (
	"context"

	"github.com/kbukum/jumptube/llm"
	"github.com/kbukum/jumptube/logger"
)

const (
	// Prompt prefixes the transcript text.
	Prompt = "Please provide a concise summary of the following video transcript:\n\n"

	// TranscriptionFailed is returned as the summary when no transcript
	// could be produced.
	TranscriptionFailed = "Transcription failed"
	// SummarizationFailed is returned as the summary when the model call fails.
	SummarizationFailed = "Summarization failed"
)

// Transcripts returns the cached or freshly built transcript text.
type Transcripts interface {
	Get(ctx context.Context, ref string) (string, error)
}

// Result is a summary plus the failure behind a sentinel, if any.
type Result struct {
	Summary string
	// Err is set when Summary is one of the sentinels.
	Err error
}

// Summarizer summarizes transcripts.
type Summarizer struct {
	transcripts Transcripts
	model       llm.Completer
	log         *logger.Logger
}

// New creates a Summarizer. model may be nil when no LLM is configured;
// every summary then fails with SummarizationFailed.
func New(transcripts Transcripts, model llm.Completer, log *logger.Logger) *Summarizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Summarizer{transcripts: transcripts, model: model, log: log.WithComponent("summarize")}
}

// Summarize never fails: pipeline and model faults are reported as the
// fixed sentinel strings with the cause in Result.Err.
func (s *Summarizer) Summarize(ctx context.Context, ref string) Result {
	log := s.log.WithContext(ctx)

	text, err := s.transcripts.Get(ctx, ref)
	if err != nil || text == "" {
		log.Warn("no transcript to summarize", logger.Fields(logger.FieldVideoURL, ref, logger.FieldError, errString(err)))
		return Result{Summary: TranscriptionFailed, Err: err}
	}
	if s.model == nil {
		log.Warn("summarizer has no language model configured", logger.Fields(logger.FieldVideoURL, ref))
		return Result{Summary: SummarizationFailed, Err: errNoModel}
	}

	summary, err := llm.Complete(ctx, s.model, "", Prompt+text)
	if err != nil || summary == "" {
		log.Warn("summarization failed", logger.Fields(logger.FieldVideoURL, ref, logger.FieldError, errString(err)))
		return Result{Summary: SummarizationFailed, Err: err}
	}
	log.Debug("video summarized", logger.Fields(logger.FieldVideoURL, ref, "summary_chars", len(summary)))
	return Result{Summary: summary}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
