package requisition

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSigned    Status = "SIGNED"
	StatusCancelled Status = "CANCELLED"
)

// Requisition is an employee's request to withdraw a quantity of a material.
// PENDING is the only non-terminal state: signing moves it to SIGNED exactly
// once, cancellation moves it to CANCELLED. Nothing returns it to PENDING.
type Requisition struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	EmployeeID     int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	MaterialID     int64      `json:"material_id" gorm:"column:material_id;not null"`
	Quantity       int64      `json:"quantity" gorm:"column:quantity;not null"`
	Note           *string    `json:"note,omitempty" gorm:"column:note"`
	Status         Status     `json:"status" gorm:"column:status;not null"`
	SignedAt       *time.Time `json:"signed_at,omitempty" gorm:"column:signed_at"`
	SignedByDevice *string    `json:"signed_by_device,omitempty" gorm:"column:signed_by_device"`
	SignedByIP     *string    `json:"signed_by_ip,omitempty" gorm:"column:signed_by_ip"`
	CreatedByID    int64      `json:"created_by_id" gorm:"column:created_by_id;not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Requisition) TableName() string {
	return "requisitions"
}

func (r *Requisition) CanBeSigned() bool {
	return r.Status == StatusPending
}

const (
	signNotePrefix  = "Requisition: "
	defaultSignNote = "Requisition withdrawal"
)

// SignMovementNote derives the ledger note for the outbound movement a
// signature produces.
func SignMovementNote(r *Requisition) string {
	if r.Note != nil && *r.Note != "" {
		return signNotePrefix + *r.Note
	}
	return defaultSignNote
}

type MaterialSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Unit string `json:"unit"`
}

type UserSummary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email,omitempty"`
}

// Detail is a requisition joined with its material and creator summaries for
// listings.
type Detail struct {
	Requisition
	Material  MaterialSummary `json:"material"`
	CreatedBy UserSummary     `json:"created_by"`
}

// SignMeta carries the signature metadata captured at the transition.
type SignMeta struct {
	SignedAt time.Time
	Device   *string
	IP       *string
}

type Repository interface {
	Create(r *Requisition) error
	GetByID(id int64) (*Requisition, error)
	ListAll() ([]*Detail, error)
	ListForEmployee(employeeID int64) ([]*Detail, error)
	// Sign performs the PENDING -> SIGNED transition, records the derived
	// outbound movement and applies the stock delta, all in one transaction.
	// A requisition that is not PENDING yields ErrAlreadySigned or
	// ErrAlreadyCancelled; concurrent signers race on a status-guarded update
	// so exactly one wins.
	Sign(id int64, meta SignMeta) (*Requisition, error)
	// Cancel performs PENDING -> CANCELLED with the same status guard.
	Cancel(id int64) (*Requisition, error)
	CountCreatedBetween(from, to *time.Time) (int64, error)
}

var (
	ErrRequisitionNotFound = errors.New("requisition not found")
	ErrAlreadySigned       = errors.New("requisition already signed")
	ErrAlreadyCancelled    = errors.New("requisition already cancelled")
	ErrNotOwner            = errors.New("requisition belongs to another employee")
)
