package transcript

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/jumptube/audio"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/transcription"
)

// Extractor produces PCM for a video reference.
type Extractor interface {
	Extract(ctx context.Context, ref string) (audio.PCM, error)
}

// Builder composes extraction, transcription and formatting into a
// BuildFunc for the Store.
type Builder struct {
	extractor Extractor
	engine    transcription.Engine
	log       *logger.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(extractor Extractor, engine transcription.Engine, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{extractor: extractor, engine: engine, log: log.WithComponent("transcript-builder")}
}

// Build extracts audio for ref, transcribes it and formats the lines.
// Extraction errors pass through unchanged; engine errors that are not
// already classified become TRANSCRIPTION_FAILED.
func (b *Builder) Build(ctx context.Context, ref string) (string, error) {
	ctx, span := observability.StartSpan(ctx, "transcript.build",
		attribute.String("video.url", ref),
		attribute.String("transcription.engine", b.engine.Name()))
	defer span.End()

	pcm, err := b.extractor.Extract(ctx, ref)
	if err != nil {
		observability.RecordError(span, err)
		return "", err
	}

	utterances, err := b.engine.Execute(ctx, pcm)
	if err != nil {
		if _, ok := apperrors.AsAppError(err); !ok {
			err = apperrors.Transcription(b.engine.Name(), err.Error()).WithCause(err)
		}
		observability.RecordError(span, err)
		return "", err
	}

	text := Format(utterances)
	if text == "" {
		err := apperrors.Transcription(b.engine.Name(), "engine returned no speech")
		observability.RecordError(span, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("transcript.utterances", len(utterances)))
	b.log.WithContext(ctx).Debug("transcript built", logger.Fields(
		logger.FieldVideoURL, ref,
		logger.FieldEngine, b.engine.Name(),
		logger.FieldSegments, len(utterances),
	))
	return text, nil
}
