package sampler

import (
	"context"
	"errors"
	"sync"

	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
)

// ErrNoData is returned by a Source when none of its core metrics could be read.
var ErrNoData = errors.New("no system metrics available")

// Source gathers one snapshot of system metrics.
//
// Collect is called at most once per tick and may block on the operating
// system. Implementations omit entries they cannot read rather than failing
// the whole call; an error means nothing usable was collected.
type Source interface {
	Collect(ctx context.Context) (*snapshot.Snapshot, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*snapshot.Snapshot, error)

// Collect calls f(ctx).
func (f SourceFunc) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	return f(ctx)
}

// omissions tracks which entries are currently failing so each one is
// logged when it starts failing and again when it comes back, not on every
// tick in between.
type omissions struct {
	mu      sync.Mutex
	failing map[string]bool
	log     logger.Logger
}

func newOmissions(log logger.Logger) *omissions {
	return &omissions{failing: make(map[string]bool), log: log}
}

// fail records a failure for key. It returns true the first time key fails
// after being healthy.
func (o *omissions) fail(key string, err error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failing[key] {
		return false
	}
	o.failing[key] = true
	o.log.Warn("omitting %s: %v", key, err)
	return true
}

// ok clears the failure flag for key.
func (o *omissions) ok(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failing[key] {
		delete(o.failing, key)
		o.log.Info("%s is readable again", key)
	}
}

// track records the outcome of reading key: fail when err is set, ok
// otherwise.
func (o *omissions) track(key string, err error) {
	if err != nil {
		o.fail(key, err)
		return
	}
	o.ok(key)
}

func (o *omissions) isFailing(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failing[key]
}
