package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/core/events"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists a single trail entry. Failures are reported to the caller
// but the recorder treats them as non-fatal: the audit trail never blocks or
// rolls back the mutation it describes.
func (s *Service) Record(entry *AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to record audit entry",
			"action", entry.Action,
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
			"error", err)
		return err
	}
	return nil
}

// List returns the newest entries, capped at MaxListLimit. Zero or negative
// limits fall back to the cap.
func (s *Service) List(limit int) ([]*AuditLog, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(limit)
}

// RegisterRecorder subscribes the service to the audit entry events the
// mutation services publish.
func (s *Service) RegisterRecorder(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeAuditEntry, func(ctx context.Context, event events.Event) error {
		entry, ok := event.(events.AuditEntryEvent)
		if !ok {
			s.logger.Warn("unexpected event payload on audit subscription",
				"event_type", event.EventType(), "event_id", event.EventID())
			return nil
		}

		log := &AuditLog{
			UserID:     entry.UserID,
			Action:     entry.Action,
			EntityType: entry.EntityType,
			EntityID:   entry.EntityID,
			IPAddress:  entry.IPAddress,
			Device:     entry.Device,
			CreatedAt:  entry.OccurredAt(),
		}
		if entry.Changes != "" {
			changes := entry.Changes
			log.Changes = &changes
		}
		return s.Record(log)
	})
}
