package postgres

import (
	"errors"
	"time"

	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/movement"
	"gorm.io/gorm"
)

// MovementRepository implements movement.Repository using GORM. Inserts and
// the stock recomputation run inside one transaction.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) movement.Repository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) Create(mv *movement.StockMovement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if mv.CreatedAt.IsZero() {
			mv.CreatedAt = time.Now()
		}
		if err := tx.Create(mv).Error; err != nil {
			return err
		}
		return ApplyStockDelta(tx, mv.MaterialID, mv.Delta())
	})
}

// ApplyStockDelta adjusts a material's current stock by delta, clamped at
// zero. The CASE expression keeps the statement portable between postgres and
// the sqlite test driver.
func ApplyStockDelta(tx *gorm.DB, materialID int64, delta int64) error {
	res := tx.Model(&material.Material{}).
		Where("id = ?", materialID).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr(
				"CASE WHEN current_stock + ? < 0 THEN 0 ELSE current_stock + ? END", delta, delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return movement.ErrMovementMaterialNotFound
	}
	return nil
}

func (r *MovementRepository) List(materialID *int64) ([]*movement.StockMovement, error) {
	var movements []*movement.StockMovement
	q := r.db.Order("created_at DESC, id DESC")
	if materialID != nil {
		q = q.Where("material_id = ?", *materialID)
	}
	err := q.Find(&movements).Error
	return movements, err
}

func (r *MovementRepository) CountCreatedBetween(from, to *time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&movement.StockMovement{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Count(&count).Error
	if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return count, err
}
