package postgres

import (
	"errors"

	"github.com/averoza/stockroom/internal/material"
	"gorm.io/gorm"
)

// MaterialRepository implements material.Repository using GORM.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) material.Repository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(m *material.Material) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) GetByID(id int64) (*material.Material, error) {
	var m material.Material
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, material.ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) GetByCode(code string) (*material.Material, error) {
	var m material.Material
	err := r.db.Where("code = ?", code).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, material.ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) List() ([]*material.Material, error) {
	var materials []*material.Material
	err := r.db.Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) Update(m *material.Material) error {
	res := r.db.Model(&material.Material{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":          m.Name,
		"code":          m.Code,
		"unit":          m.Unit,
		"unit_price":    m.UnitPrice,
		"minimum_stock": m.MinimumStock,
		"updated_at":    m.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return material.ErrMaterialNotFound
	}
	return nil
}

func (r *MaterialRepository) Delete(id int64) error {
	res := r.db.Delete(&material.Material{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return material.ErrMaterialNotFound
	}
	return nil
}

func (r *MaterialRepository) ListLowStock() ([]*material.Material, error) {
	var materials []*material.Material
	err := r.db.Where("current_stock <= minimum_stock").Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) IsReferenced(id int64) (bool, error) {
	var count int64
	if err := r.db.Table("stock_movements").Where("material_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Table("requisitions").Where("material_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
