// Package audit persists the append-only audit event log.
package audit

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all audit event database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new audit repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent appends an audit event.
func (r *Repository) LogEvent(event *entities.AuditEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}
	return nil
}

// ListRecent returns the most recent events, newest first.
func (r *Repository) ListRecent(limit int) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error
	return events, err
}

// DeleteOlderThan removes events created before the cutoff and returns the
// number of rows deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
