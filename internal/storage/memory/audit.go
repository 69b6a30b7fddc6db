package memory

import (
	"time"

	"github.com/averoza/stockroom/internal/audit"
)

type AuditRepository struct {
	store *Store
}

func NewAuditRepository(store *Store) audit.Repository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) Create(entry *audit.AuditLog) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAuditID++
	entry.ID = s.nextAuditID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.auditLogs = append(s.auditLogs, *entry)
	return nil
}

func (r *AuditRepository) List(limit int) ([]*audit.AuditLog, error) {
	if limit <= 0 || limit > audit.MaxListLimit {
		limit = audit.MaxListLimit
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*audit.AuditLog
	for i := len(s.auditLogs) - 1; i >= 0 && len(out) < limit; i-- {
		entry := s.auditLogs[i]
		out = append(out, &entry)
	}
	return out, nil
}
