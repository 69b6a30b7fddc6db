package events

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeAuditEntry is published after every successful mutation so the
// audit recorder can persist a trail entry without coupling services to the
// audit store.
const EventTypeAuditEntry = "audit.entry"

type AuditEntryEvent struct {
	BaseEvent
	UserID     int64
	Action     string
	EntityType string
	EntityID   int64
	Changes    string
	IPAddress  *string
	Device     *string
}

func NewAuditEntryEvent(userID int64, action, entityType string, entityID int64, changes string, ip, device *string) AuditEntryEvent {
	return AuditEntryEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeAuditEntry,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":     userID,
				"action":      action,
				"entity_type": entityType,
				"entity_id":   entityID,
			},
		},
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		IPAddress:  ip,
		Device:     device,
	}
}
