package requisition

import (
	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/core/common/validation"
)

type CreateRequisitionDTO struct {
	EmployeeID int64   `json:"employee_id"`
	MaterialID int64   `json:"material_id"`
	Quantity   int64   `json:"quantity"`
	Note       *string `json:"note,omitempty"`
}

func (dto CreateRequisitionDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	v.Field("material_id", dto.MaterialID).Required()
	v.Field("quantity", dto.Quantity).Required().MinInt(1, errs.ErrCodeInvalidQuantity)
	if dto.Note != nil && len(*dto.Note) > 500 {
		return errs.NewValidationFieldError("note", "note must not exceed 500 characters", errs.ErrCodeValidationFailed)
	}
	return v.Validate()
}

type SignRequisitionDTO struct {
	Device *string `json:"device,omitempty"`
}
