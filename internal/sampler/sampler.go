// Package sampler turns readings from a Source into published snapshots.
//
// Sampling is split in two so the monitor loop stays the only writer:
// Sample does the slow part (talking to the operating system) and may run on
// any goroutine, while Apply publishes the outcome and must be called from the
// loop that owns the Store.
package sampler

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// DefaultInterval is the sampling period used when none is configured.
const DefaultInterval = time.Second

// Result is the outcome of one Sample call.
type Result struct {
	Snapshot *snapshot.Snapshot
	Err      error
	Started  time.Time
	Finished time.Time
}

// Health describes how fresh the published snapshot is.
type Health struct {
	// Stale is true while the most recent attempt failed and the store still
	// holds an older snapshot.
	Stale bool
	// Failures counts consecutive failed attempts.
	Failures    int
	LastError   error
	LastSuccess time.Time
	LastAttempt time.Time
}

// Recorder receives every snapshot Apply publishes.
type Recorder interface {
	Record(snap *snapshot.Snapshot)
}

// Sampler owns the single write path into a snapshot.Store.
type Sampler struct {
	source   Source
	store    *snapshot.Store
	log      logger.Logger
	timeout  time.Duration
	now      func() time.Time
	recorder Recorder

	health Health
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithTimeout bounds how long Sample waits for the Source.
func WithTimeout(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for sampling failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder registers a Recorder fed on every successful Apply.
func WithRecorder(r Recorder) Option {
	return func(s *Sampler) {
		s.recorder = r
	}
}

// New creates a Sampler writing into store.
func New(source Source, store *snapshot.Store, opts ...Option) *Sampler {
	s := &Sampler{
		source:  source,
		store:   store,
		log:     logger.Default(),
		timeout: DefaultInterval,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the store this sampler publishes to.
func (s *Sampler) Store() *snapshot.Store {
	return s.store
}

// Sample asks the Source for a snapshot, waiting at most the configured
// timeout. It never touches the store or health, so it is safe to run off the
// loop goroutine.
//
// A Source that overruns the timeout is not interrupted beyond context
// cancellation; its eventual result is dropped.
func (s *Sampler) Sample(ctx context.Context) Result {
	res := Result{Started: s.now()}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		snap *snapshot.Snapshot
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		snap, err := s.source.Collect(ctx)
		done <- outcome{snap, err}
	}()

	select {
	case out := <-done:
		res.Snapshot, res.Err = out.snap, out.err
		if res.Err == nil && res.Snapshot == nil {
			res.Err = ErrNoData
		}
	case <-ctx.Done():
		res.Err = fmt.Errorf("sample did not finish within %s: %w", s.timeout, ctx.Err())
	}

	res.Finished = s.now()
	return res
}

// Apply publishes a successful result or records a failed one. On failure the
// previous snapshot stays current and the sampler is marked stale. The first
// failure of a streak is logged; the rest are counted silently.
//
// Apply reports whether a new snapshot was published. It must only be called
// from the goroutine that owns the store.
func (s *Sampler) Apply(r Result) bool {
	s.health.LastAttempt = r.Finished

	if r.Err != nil {
		if s.health.Failures == 0 {
			s.log.Warn("sampling failed, keeping previous snapshot: %v", r.Err)
		}
		s.health.Failures++
		s.health.LastError = r.Err
		_, have := s.store.Current()
		s.health.Stale = have
		return false
	}

	if s.health.Failures > 0 {
		s.log.Info("sampling recovered after %d failed attempt(s)", s.health.Failures)
	}
	s.store.Publish(r.Snapshot)
	if s.recorder != nil {
		s.recorder.Record(r.Snapshot)
	}
	s.health = Health{
		LastSuccess: r.Finished,
		LastAttempt: r.Finished,
	}
	return true
}

// Tick samples and applies in one step, for callers with no loop of their own.
func (s *Sampler) Tick(ctx context.Context) bool {
	return s.Apply(s.Sample(ctx))
}

// Health returns the current freshness state.
func (s *Sampler) Health() Health {
	return s.health
}
