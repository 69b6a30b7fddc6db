package postgres

import (
	"github.com/averoza/stockroom/internal/audit"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(entry *audit.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *AuditRepository) List(limit int) ([]*audit.AuditLog, error) {
	if limit <= 0 || limit > audit.MaxListLimit {
		limit = audit.MaxListLimit
	}
	var entries []*audit.AuditLog
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
