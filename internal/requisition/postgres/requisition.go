package postgres

import (
	"errors"
	"time"

	"github.com/averoza/stockroom/internal/movement"
	movementpg "github.com/averoza/stockroom/internal/movement/postgres"
	"github.com/averoza/stockroom/internal/requisition"
	"gorm.io/gorm"
)

// RequisitionRepository implements requisition.Repository using GORM.
type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) requisition.Repository {
	return &RequisitionRepository{db: db}
}

func (r *RequisitionRepository) Create(req *requisition.Requisition) error {
	return r.db.Create(req).Error
}

func (r *RequisitionRepository) GetByID(id int64) (*requisition.Requisition, error) {
	var req requisition.Requisition
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requisition.ErrRequisitionNotFound
		}
		return nil, err
	}
	return &req, nil
}

// detailRow flattens the requisition joined with material and creator
// summaries for scanning.
type detailRow struct {
	requisition.Requisition
	MaterialName     string  `gorm:"column:material_name"`
	MaterialCode     string  `gorm:"column:material_code"`
	MaterialUnit     string  `gorm:"column:material_unit"`
	CreatorFirstName string  `gorm:"column:creator_first_name"`
	CreatorLastName  string  `gorm:"column:creator_last_name"`
	CreatorEmail     *string `gorm:"column:creator_email"`
}

func (r *RequisitionRepository) listDetails(employeeID *int64) ([]*requisition.Detail, error) {
	q := r.db.Table("requisitions").
		Select(`requisitions.*,
			materials.name AS material_name,
			materials.code AS material_code,
			materials.unit AS material_unit,
			creators.first_name AS creator_first_name,
			creators.last_name AS creator_last_name,
			creators.email AS creator_email`).
		Joins("JOIN materials ON materials.id = requisitions.material_id").
		Joins("JOIN users AS creators ON creators.id = requisitions.created_by_id").
		Order("requisitions.created_at DESC, requisitions.id DESC")
	if employeeID != nil {
		q = q.Where("requisitions.employee_id = ?", *employeeID)
	}

	var rows []detailRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]*requisition.Detail, len(rows))
	for i, row := range rows {
		details[i] = &requisition.Detail{
			Requisition: row.Requisition,
			Material: requisition.MaterialSummary{
				ID:   row.MaterialID,
				Name: row.MaterialName,
				Code: row.MaterialCode,
				Unit: row.MaterialUnit,
			},
			CreatedBy: requisition.UserSummary{
				ID:        row.CreatedByID,
				FirstName: row.CreatorFirstName,
				LastName:  row.CreatorLastName,
				Email:     row.CreatorEmail,
			},
		}
	}
	return details, nil
}

func (r *RequisitionRepository) ListAll() ([]*requisition.Detail, error) {
	return r.listDetails(nil)
}

func (r *RequisitionRepository) ListForEmployee(employeeID int64) ([]*requisition.Detail, error) {
	return r.listDetails(&employeeID)
}

// Sign runs the whole transition in one transaction. The status-guarded
// update decides the winner under concurrency: whoever flips PENDING to
// SIGNED first commits, everyone else reads the terminal status back.
func (r *RequisitionRepository) Sign(id int64, meta requisition.SignMeta) (*requisition.Requisition, error) {
	var signed requisition.Requisition
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requisition.Requisition{}).
			Where("id = ? AND status = ?", id, requisition.StatusPending).
			Updates(map[string]interface{}{
				"status":           requisition.StatusSigned,
				"signed_at":        meta.SignedAt,
				"signed_by_device": meta.Device,
				"signed_by_ip":     meta.IP,
				"updated_at":       meta.SignedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.terminalStateError(tx, id)
		}

		if err := tx.Where("id = ?", id).First(&signed).Error; err != nil {
			return err
		}

		note := requisition.SignMovementNote(&signed)
		mv := &movement.StockMovement{
			MaterialID:    signed.MaterialID,
			Type:          movement.TypeOutbound,
			Quantity:      signed.Quantity,
			Note:          &note,
			UserID:        signed.EmployeeID,
			RequisitionID: &signed.ID,
			CreatedAt:     meta.SignedAt,
		}
		if err := tx.Create(mv).Error; err != nil {
			return err
		}

		return movementpg.ApplyStockDelta(tx, signed.MaterialID, -signed.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return &signed, nil
}

func (r *RequisitionRepository) Cancel(id int64) (*requisition.Requisition, error) {
	var cancelled requisition.Requisition
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&requisition.Requisition{}).
			Where("id = ? AND status = ?", id, requisition.StatusPending).
			Updates(map[string]interface{}{
				"status":     requisition.StatusCancelled,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.terminalStateError(tx, id)
		}
		return tx.Where("id = ?", id).First(&cancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// terminalStateError distinguishes why a status-guarded update matched no
// rows.
func (r *RequisitionRepository) terminalStateError(tx *gorm.DB, id int64) error {
	var current requisition.Requisition
	if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return requisition.ErrRequisitionNotFound
		}
		return err
	}
	if current.Status == requisition.StatusCancelled {
		return requisition.ErrAlreadyCancelled
	}
	return requisition.ErrAlreadySigned
}

func (r *RequisitionRepository) CountCreatedBetween(from, to *time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&requisition.Requisition{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	err := q.Count(&count).Error
	return count, err
}
