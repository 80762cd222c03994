// Package jumptube ties the transcript pipeline, ranking, catalog search
// and summarization together behind the operations the HTTP API serves.
package jumptube

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/jumptube/catalog"
	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/search"
	"github.com/kbukum/jumptube/summarize"
	"github.com/kbukum/jumptube/transcript"
)

// Transcripts returns cached or freshly built transcript text.
type Transcripts interface {
	Get(ctx context.Context, ref string) (string, error)
}

// Catalog searches video metadata.
type Catalog interface {
	Search(ctx context.Context, term string, maxResults int) ([]catalog.Video, error)
}

// Summarizer summarizes a video's transcript.
type Summarizer interface {
	Summarize(ctx context.Context, ref string) summarize.Result
}

// InVideoQuery is an in-video search request.
type InVideoQuery struct {
	VideoURL string
	Prompt   string
	// TopK caps the matches; nil uses the configured default and a
	// non-positive value returns every match.
	TopK *int
	// Timeout overrides the configured request timeout when positive.
	Timeout time.Duration
}

// InVideoResult is the ranked answer to an InVideoQuery.
type InVideoResult struct {
	VideoURL string
	Prompt   string
	Terms    []string
	Matches  []search.Match
	// TranscriptErr is set when no transcript could be produced. Matches
	// is then empty and the request still succeeds.
	TranscriptErr error
}

// TranscriptView is a parsed transcript with its content digest.
type TranscriptView struct {
	VideoURL string
	Digest   string
	Segments []transcript.Segment
}

// Service implements the request operations.
type Service struct {
	cfg         SearchConfig
	transcripts Transcripts
	catalog     Catalog
	summarizer  Summarizer
	log         *logger.Logger
	metrics     *observability.Metrics
}

// NewService creates a Service. metrics may be nil.
func NewService(cfg SearchConfig, transcripts Transcripts, videos Catalog, summarizer Summarizer, log *logger.Logger, metrics *observability.Metrics) *Service {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		cfg:         cfg,
		transcripts: transcripts,
		catalog:     videos,
		summarizer:  summarizer,
		log:         log.WithComponent("jumptube"),
		metrics:     metrics,
	}
}

// SearchVideos looks up videos by free text. maxResults is clamped to 1..50.
func (s *Service) SearchVideos(ctx context.Context, term string, maxResults int) ([]catalog.Video, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.MissingField("query")
	}
	return s.catalog.Search(ctx, term, catalog.ClampMaxResults(maxResults))
}

// SearchInVideo ranks the transcript of q.VideoURL against q.Prompt.
// Pipeline failures do not fail the request: they come back as an empty
// match list with TranscriptErr set.
func (s *Service) SearchInVideo(ctx context.Context, q InVideoQuery) (InVideoResult, error) {
	if err := requireRef(q.VideoURL); err != nil {
		return InVideoResult{}, err
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return InVideoResult{}, apperrors.MissingField("prompt")
	}
	log := s.log.WithContext(ctx)

	res := InVideoResult{VideoURL: q.VideoURL, Prompt: q.Prompt, Matches: []search.Match{}}
	res.Terms = search.ExtractTerms(q.Prompt)
	if len(res.Terms) == 0 {
		log.Debug("prompt has no searchable terms", logger.Fields(logger.FieldVideoURL, q.VideoURL))
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout(q.Timeout))
	defer cancel()

	text, err := s.transcripts.Get(ctx, q.VideoURL)
	if err != nil {
		log.Warn("transcript unavailable", logger.Fields(logger.FieldVideoURL, q.VideoURL, logger.FieldError, err.Error()))
		res.TranscriptErr = err
		return res, nil
	}

	topK := s.cfg.DefaultTopK
	if q.TopK != nil {
		topK = *q.TopK
	}
	if matches := search.Rank(q.VideoURL, transcript.Parse(text), res.Terms, topK); matches != nil {
		res.Matches = matches
	}
	s.metrics.RecordMatches(ctx, len(res.Matches))
	log.Debug("in-video search ranked", logger.Fields(
		logger.FieldVideoURL, q.VideoURL,
		logger.FieldTerms, res.Terms,
		logger.FieldMatches, len(res.Matches),
	))
	return res, nil
}

// Summarize returns a summary of ref's transcript. Pipeline and model
// failures come back as sentinel summaries, never as errors.
func (s *Service) Summarize(ctx context.Context, ref string) (summarize.Result, error) {
	if err := requireRef(ref); err != nil {
		return summarize.Result{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	return s.summarizer.Summarize(ctx, ref), nil
}

// Transcript returns the parsed transcript of ref, building it if needed.
func (s *Service) Transcript(ctx context.Context, ref string) (TranscriptView, error) {
	if err := requireRef(ref); err != nil {
		return TranscriptView{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	text, err := s.transcripts.Get(ctx, ref)
	if err != nil {
		return TranscriptView{}, err
	}
	return TranscriptView{VideoURL: ref, Digest: transcript.Digest(text), Segments: transcript.Parse(text)}, nil
}

func (s *Service) timeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return s.cfg.RequestTimeout
}

func requireRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.MissingField("video_url")
	}
	return nil
}
