package transcript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/kbukum/jumptube/errors"
	"github.com/kbukum/jumptube/logger"
	"github.com/kbukum/jumptube/observability"
	"github.com/kbukum/jumptube/resilience"
)

// BuildFunc produces the transcript text for a video reference.
type BuildFunc func(ctx context.Context, ref string) (string, error)

// Store caches transcript text per video reference. Concurrent misses for
// the same reference share one build; failed or empty builds are not
// cached, so the next request tries again.
type Store struct {
	cfg      StoreConfig
	build    BuildFunc
	log      *logger.Logger
	metrics  *observability.Metrics
	bulkhead *resilience.Bulkhead

	mu      sync.RWMutex
	entries map[string]string
	order   []string

	group singleflight.Group
}

// NewStore creates a store that fills misses with build.
func NewStore(cfg StoreConfig, build BuildFunc, log *logger.Logger, metrics *observability.Metrics) *Store {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		cfg:     cfg,
		build:   build,
		log:     log.WithComponent("transcript-store"),
		metrics: metrics,
		entries: make(map[string]string),
	}
	if cfg.MaxConcurrentBuilds > 0 {
		s.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "transcript-builds",
			MaxConcurrent: cfg.MaxConcurrentBuilds,
		})
	}
	return s
}

// Lookup returns the cached transcript without building.
func (s *Store) Lookup(ref string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.entries[ref]
	return text, ok
}

// Len returns the number of cached transcripts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the transcript for ref, building it on a miss. The build is
// detached from ctx and bounded by BuildTimeout; ctx only bounds how long
// this caller waits. A caller that gives up gets a TIMEOUT error while the
// build continues and caches its result for later callers.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if text, ok := s.Lookup(ref); ok {
		s.metrics.RecordCacheLookup(ctx, observability.LookupHit)
		s.log.WithContext(ctx).Debug("transcript cache hit", logger.Fields(logger.FieldVideoURL, ref, logger.FieldCacheHit, true))
		return text, nil
	}

	led := false
	ch := s.group.DoChan(ref, func() (any, error) {
		led = true
		// A build that finished between Lookup and DoChan already cached it.
		if text, ok := s.Lookup(ref); ok {
			return text, nil
		}
		return s.run(ctx, ref)
	})

	select {
	case res := <-ch:
		if led {
			s.metrics.RecordCacheLookup(ctx, observability.LookupMiss)
		} else {
			s.metrics.RecordCacheLookup(ctx, observability.LookupShared)
			s.log.WithContext(ctx).Debug("joined in-flight transcript build", logger.Fields(logger.FieldVideoURL, ref))
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		s.log.WithContext(ctx).Warn("gave up waiting for transcript", logger.Fields(logger.FieldVideoURL, ref))
		return "", apperrors.Timeout("transcript").WithCause(ctx.Err())
	}
}

// run executes one build under its own deadline and caches a non-empty
// result.
func (s *Store) run(parent context.Context, ref string) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cfg.BuildTimeout)
	defer cancel()
	log := s.log.WithContext(ctx)

	start := time.Now()
	var text string
	build := func() error {
		var err error
		text, err = s.build(ctx, ref)
		return err
	}
	var err error
	if s.bulkhead != nil {
		err = s.bulkhead.Execute(ctx, build)
	} else {
		err = build()
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = apperrors.Transcription("", "transcript is empty")
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		err = apperrors.Timeout("transcript build").WithCause(err)
	}

	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordBuild(ctx, "error", elapsed)
		log.Warn("transcript build failed", logger.Fields(
			logger.FieldVideoURL, ref, logger.FieldError, err.Error(), logger.FieldDuration, elapsed.Milliseconds()))
		return "", err
	}

	s.put(ref, text)
	s.metrics.RecordBuild(ctx, "success", elapsed)
	log.Info("transcript cached", logger.Fields(
		logger.FieldVideoURL, ref, logger.FieldDigest, Digest(text), logger.FieldDuration, elapsed.Milliseconds()))
	return text, nil
}

func (s *Store) put(ref, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[ref]; ok {
		return
	}
	s.entries[ref] = text
	if s.cfg.MaxEntries <= 0 {
		return
	}
	s.order = append(s.order, ref)
	if excess := len(s.order) - s.cfg.MaxEntries; excess > 0 {
		for _, old := range s.order[:excess] {
			delete(s.entries, old)
		}
		// The backing array holds live refs only.
		n := copy(s.order, s.order[excess:])
		clear(s.order[n:])
		s.order = s.order[:n]
	}
}
