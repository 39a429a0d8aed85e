package entities

import "time"

type AuditEventType string

const (
	AuditEventAuth      AuditEventType = "auth"
	AuditEventInventory AuditEventType = "inventory"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records a security-relevant action: login attempts, registrations,
// logouts and inventory changes. Events are append-only and pruned by age.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"` // zero for failed logins of unknown users
	EventType   AuditEventType `gorm:"size:32;index" json:"event_type"`
	Action      string         `gorm:"size:64" json:"action"`
	Description string         `gorm:"size:512" json:"description,omitempty"`
	IPAddress   string         `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent   string         `gorm:"size:512" json:"user_agent,omitempty"`
	Status      AuditStatus    `gorm:"size:16" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
