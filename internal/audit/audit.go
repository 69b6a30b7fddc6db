package audit

import "time"

// MaxListLimit bounds how many trail entries a single query returns.
const MaxListLimit = 1000

// AuditLog is one immutable entry in the audit trail. Entries are written by
// the recorder in response to audit events and are never updated or deleted.
type AuditLog struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null"`
	Action     string    `json:"action" gorm:"column:action;not null"`
	EntityType string    `json:"entity_type" gorm:"column:entity_type;not null"`
	EntityID   int64     `json:"entity_id" gorm:"column:entity_id;not null"`
	Changes    *string   `json:"changes,omitempty" gorm:"column:changes"`
	IPAddress  *string   `json:"ip_address,omitempty" gorm:"column:ip_address"`
	Device     *string   `json:"device,omitempty" gorm:"column:device"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type Repository interface {
	Create(entry *AuditLog) error
	// List returns entries newest first, at most limit rows.
	List(limit int) ([]*AuditLog, error)
}
