// Package audio turns a video reference into mono 16 kHz PCM by chaining
// two external tools: a resolver that prints a direct audio URL and a
// transcoder that decodes that URL to raw samples.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/process"
	"github.com/kbukum/jumptube/util"
)

const stderrExcerpt = 300

// Extractor runs the resolver and transcoder. It never retries; a failed
// attempt is returned to the caller as an AppError.
type Extractor struct {
	cfg Config
	log *logger.Logger
}

// NewExtractor creates an Extractor. cfg defaults are applied.
func NewExtractor(cfg Config, log *logger.Logger) *Extractor {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{cfg: cfg, log: log.WithComponent("audio")}
}

// Extract resolves ref and decodes its audio track. Errors carry
// TOOL_NOT_FOUND, EXTRACTION_FAILED or TIMEOUT codes.
func (e *Extractor) Extract(ctx context.Context, ref string) (PCM, error) {
	ctx, span := observability.StartSpan(ctx, "audio.extract", attribute.String("video.url", ref))
	defer span.End()

	audioURL, err := e.resolve(ctx, ref)
	if err != nil {
		observability.RecordError(span, err)
		return PCM{}, err
	}
	pcm, err := e.transcode(ctx, audioURL)
	if err != nil {
		observability.RecordError(span, err)
		return PCM{}, err
	}
	span.SetAttributes(attribute.Int("audio.samples", len(pcm.Samples)))
	e.log.WithContext(ctx).Debug("audio extracted", logger.Fields(
		logger.FieldVideoURL, ref,
		logger.FieldSamples, len(pcm.Samples),
		"seconds", int(pcm.Duration().Seconds()),
	))
	return pcm, nil
}

func (e *Extractor) resolve(ctx context.Context, ref string) (string, error) {
	rctx, cancel := context.WithTimeout(ctx, e.cfg.ResolveTimeout)
	defer cancel()

	res, err := process.Run(rctx, process.Command{
		Binary:      e.cfg.ResolverBinary,
		Args:        []string{"-f", e.cfg.ResolverFormat, "-g", "--no-warnings", "--", ref},
		GracePeriod: e.cfg.GracePeriod,
	})
	if err != nil {
		if perr := e.processError(ctx, "resolve", e.cfg.ResolverBinary, err); perr != nil {
			return "", perr
		}
		if res == nil {
			return "", apperrors.Extraction("resolve", err.Error()).WithCause(err)
		}
	}
	if msg := strings.TrimSpace(string(res.Stderr)); msg != "" {
		return "", apperrors.Extraction("resolve", util.Truncate(firstLine(msg), stderrExcerpt)).
			WithDetail("exit_code", res.ExitCode)
	}
	if err != nil {
		return "", apperrors.Extraction("resolve", err.Error()).WithCause(err)
	}
	audioURL := firstLine(strings.TrimSpace(string(res.Stdout)))
	if audioURL == "" {
		return "", apperrors.Extraction("resolve", "resolver printed no audio URL")
	}
	return audioURL, nil
}

func (e *Extractor) transcode(ctx context.Context, audioURL string) (PCM, error) {
	var samples []float32
	var consumed int64
	res, err := process.Stream(ctx, process.Command{
		Binary: e.cfg.TranscoderBinary,
		Args: []string{
			"-nostdin", "-loglevel", "error",
			"-i", audioURL,
			"-f", "s16le", "-ac", "1", "-ar", fmt.Sprint(SampleRate),
			"pipe:1",
		},
		GracePeriod: e.cfg.GracePeriod,
	}, func(r io.Reader) error {
		var derr error
		samples, consumed, derr = DecodeS16LE(r)
		return derr
	})
	if err != nil {
		if perr := e.processError(ctx, "transcode", e.cfg.TranscoderBinary, err); perr != nil {
			return PCM{}, perr
		}
	}
	if consumed == 0 {
		reason := "transcoder produced no audio"
		if res != nil {
			if msg := strings.TrimSpace(string(res.Stderr)); msg != "" {
				reason += ": " + util.Truncate(firstLine(msg), stderrExcerpt)
			}
		}
		return PCM{}, apperrors.Extraction("transcode", reason)
	}
	if err != nil {
		e.log.WithContext(ctx).Warn("transcoder exited with error after producing audio", logger.Fields(
			logger.FieldTool, e.cfg.TranscoderBinary,
			logger.FieldError, err.Error(),
			"bytes", consumed,
		))
	}
	return PCM{Samples: samples, SampleRate: SampleRate}, nil
}

// processError maps the failures that end an extraction immediately:
// a missing tool and a cancelled or expired context. Other errors are
// left to the caller, which knows how to read the tool's output.
func (e *Extractor) processError(ctx context.Context, stage, tool string, err error) error {
	switch {
	case errors.Is(err, process.ErrNotFound):
		e.log.Error("required tool missing", logger.Fields(logger.FieldTool, tool))
		return apperrors.ToolNotFound(tool).WithCause(err)
	case ctx.Err() != nil:
		return apperrors.Timeout("audio " + stage).WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Extraction(stage, "tool did not finish in time").WithCause(err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
