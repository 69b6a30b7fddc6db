package movement

import (
	"errors"
	"time"
)

type Type string

const (
	TypeInbound    Type = "INBOUND"
	TypeOutbound   Type = "OUTBOUND"
	TypeAdjustment Type = "ADJUSTMENT"
)

func (t Type) Valid() bool {
	switch t {
	case TypeInbound, TypeOutbound, TypeAdjustment:
		return true
	}
	return false
}

// StockMovement is an immutable ledger entry. Rows are only ever inserted;
// the owning material's stock is recomputed in the same transaction.
type StockMovement struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	MaterialID    int64     `json:"material_id" gorm:"column:material_id;not null"`
	Type          Type      `json:"type" gorm:"column:type;not null"`
	Quantity      int64     `json:"quantity" gorm:"column:quantity;not null"`
	UnitPrice     *int64    `json:"unit_price,omitempty" gorm:"column:unit_price"`
	Note          *string   `json:"note,omitempty" gorm:"column:note"`
	UserID        int64     `json:"user_id" gorm:"column:user_id;not null"`
	RequisitionID *int64    `json:"requisition_id,omitempty" gorm:"column:requisition_id"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// Delta is the signed stock contribution of the movement. INBOUND and
// ADJUSTMENT add, OUTBOUND subtracts.
func (m *StockMovement) Delta() int64 {
	if m.Type == TypeOutbound {
		return -m.Quantity
	}
	return m.Quantity
}

type Repository interface {
	// Create inserts the movement and applies its delta to the material's
	// current stock, clamped at zero, within one transaction.
	Create(mv *StockMovement) error
	// List returns movements newest-first, optionally filtered to one material.
	List(materialID *int64) ([]*StockMovement, error)
	CountCreatedBetween(from, to *time.Time) (int64, error)
}

var ErrMovementMaterialNotFound = errors.New("movement references unknown material")
