package scheduler

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/librarian/internal/config"
)

// EventPruner deletes audit events older than the retention period.
type EventPruner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// AuditCleanupScheduler periodically prunes audit events past their
// retention period so the event log does not grow without bound.
type AuditCleanupScheduler struct {
	auditor EventPruner
	cfg     config.Cleanup

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a new scheduler instance.
func NewAuditCleanupScheduler(auditor EventPruner, cfg config.Cleanup) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		auditor: auditor,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if cleanup is enabled.
func (s *AuditCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled || s.cfg.AuditRetention <= 0 {
		log.Printf("Audit cleanup scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			log.Printf("Audit cleanup failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Audit cleanup scheduler: started with schedule %q, retention %v", s.cfg.Schedule, s.cfg.AuditRetention)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Audit cleanup scheduler: stopped")
}

// RunOnce prunes expired events and returns how many were removed.
func (s *AuditCleanupScheduler) RunOnce() (int64, error) {
	removed, err := s.auditor.DeleteOldEvents(s.cfg.AuditRetention)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("Audit cleanup: removed %d expired event(s)", removed)
	}
	return removed, nil
}
