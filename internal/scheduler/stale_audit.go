package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/kdbplan/kdbplan/internal/logger"
)

// UnresolvedSource reports bookmarked codes missing from the catalog
type UnresolvedSource interface {
	UnresolvedBookmarks() []string
}

// StaleAuditor periodically reports bookmarks whose course left the catalog.
// It only reports: stale bookmarks are kept until the user removes them.
type StaleAuditor struct {
	source   UnresolvedSource
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}

	mu   sync.RWMutex
	last []string
}

// NewStaleAuditor creates a new auditor
func NewStaleAuditor(source UnresolvedSource, log logger.Logger, interval time.Duration) *StaleAuditor {
	return &StaleAuditor{
		source:   source,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic audit
func (sa *StaleAuditor) Start(ctx context.Context) error {
	// Run immediately on start
	sa.Audit(ctx)

	ticker := time.NewTicker(sa.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sa.Audit(ctx)
			case <-sa.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the auditor
func (sa *StaleAuditor) Stop() {
	close(sa.stopCh)
}

// Audit records and logs the current stale bookmarks
func (sa *StaleAuditor) Audit(ctx context.Context) []string {
	if ctx.Err() != nil {
		return sa.Last()
	}

	stale := sa.source.UnresolvedBookmarks()

	sa.mu.Lock()
	sa.last = stale
	sa.mu.Unlock()

	if len(stale) > 0 {
		sa.logger.Warn("bookmarks reference courses missing from the catalog",
			logger.Int("count", len(stale)),
			logger.Strings("codes", stale))
	} else {
		sa.logger.Debug("no stale bookmarks")
	}
	return stale
}

// Last returns the result of the latest audit
func (sa *StaleAuditor) Last() []string {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	out := make([]string, len(sa.last))
	copy(out, sa.last)
	return out
}
