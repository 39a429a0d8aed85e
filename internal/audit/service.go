// Package audit provides high-level audit logging for security-relevant
// actions. Recording is best-effort: a failed write is logged, never surfaced
// to the request that triggered it.
package audit

import (
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/entities"
)

// Service wraps the audit repository with event constructors. All Log methods
// are safe to call on a nil service, so callers need no auditing wired in tests.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// LogAuth records a login, registration or logout event.
func (s *Service) LogAuth(userID uint, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:    userID,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}
	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// LogBookAdded records a catalog addition by a librarian.
func (s *Service) LogBookAdded(userID, bookID uint, title string) {
	s.LogAsync(&entities.AuditEvent{
		UserID:      userID,
		EventType:   entities.AuditEventInventory,
		Action:      "book_add",
		Description: fmt.Sprintf("Added book %d: %s", bookID, truncate(title, 200)),
		Status:      entities.AuditStatusSuccess,
	})
}

// Recent retrieves the most recent audit events.
func (s *Service) Recent(limit int) ([]entities.AuditEvent, error) {
	if s == nil {
		return nil, nil
	}
	return s.repo.ListRecent(limit)
}

// DeleteOldEvents removes events older than the retention period.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	if s == nil {
		return 0, nil
	}
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOlderThan(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
