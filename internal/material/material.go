package material

import (
	"errors"
	"time"
)

// Material is a catalog item tracked by stock quantity. CurrentStock is never
// negative and only ever changes through stock movements.
type Material struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	Code         string    `json:"code" gorm:"column:code;not null"`
	Unit         string    `json:"unit" gorm:"column:unit;not null"`
	UnitPrice    *int64    `json:"unit_price,omitempty" gorm:"column:unit_price"`
	MinimumStock int64     `json:"minimum_stock" gorm:"column:minimum_stock"`
	CurrentStock int64     `json:"current_stock" gorm:"column:current_stock"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

func (m *Material) IsLowStock() bool {
	return m.CurrentStock <= m.MinimumStock
}

func (m *Material) IsCritical() bool {
	return m.CurrentStock == 0
}

// Repository is implemented by the postgres and in-memory backends.
type Repository interface {
	Create(m *Material) error
	GetByID(id int64) (*Material, error)
	GetByCode(code string) (*Material, error)
	List() ([]*Material, error)
	Update(m *Material) error
	Delete(id int64) error
	ListLowStock() ([]*Material, error)
	// IsReferenced reports whether any stock movement or requisition points at
	// the material. Referenced materials cannot be deleted.
	IsReferenced(id int64) (bool, error)
}

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrDuplicateCode    = errors.New("material code already exists")
	ErrMaterialInUse    = errors.New("material is referenced by movements or requisitions")
)
