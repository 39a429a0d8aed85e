// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/uploads"
)

// CoverUsage answers whether a stored cover filename is still referenced
// by any book row.
type CoverUsage interface {
	CoverInUse(filename string) (bool, error)
}

// CoverCleanupScheduler periodically deletes uploaded cover files that no
// book references. An upload followed by a failed add-book insert leaves
// such a file behind; this job is the backstop.
type CoverCleanupScheduler struct {
	store *uploads.Store
	books CoverUsage
	cfg   config.Cleanup

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewCoverCleanupScheduler creates a new scheduler instance.
func NewCoverCleanupScheduler(store *uploads.Store, books CoverUsage, cfg config.Cleanup) *CoverCleanupScheduler {
	return &CoverCleanupScheduler{
		store: store,
		books: books,
		cfg:   cfg,
		cron:  cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *CoverCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Cover cleanup scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			log.Printf("Cover cleanup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cover cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Cover cleanup scheduler: started with schedule %q", s.cfg.Schedule)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *CoverCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Cover cleanup scheduler: stopped")
}

// RunOnce deletes all currently orphaned covers and returns how many were removed.
func (s *CoverCleanupScheduler) RunOnce() (int, error) {
	names, err := s.store.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list stored covers: %w", err)
	}

	removed := 0
	for _, name := range names {
		if name == config.PlaceholderCover {
			continue
		}
		inUse, err := s.books.CoverInUse(name)
		if err != nil {
			return removed, fmt.Errorf("failed to check cover usage: %w", err)
		}
		if inUse {
			continue
		}
		if err := s.store.Remove(name); err != nil {
			return removed, fmt.Errorf("failed to remove orphan cover %s: %w", name, err)
		}
		removed++
	}

	if removed > 0 {
		log.Printf("Cover cleanup: removed %d orphaned file(s)", removed)
	}
	return removed, nil
}
