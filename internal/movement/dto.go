package movement

import (
	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/core/common/validation"
)

type CreateMovementDTO struct {
	MaterialID int64   `json:"material_id"`
	Type       Type    `json:"type"`
	Quantity   int64   `json:"quantity"`
	UnitPrice  *int64  `json:"unit_price,omitempty"`
	Note       *string `json:"note,omitempty"`
}

func (dto CreateMovementDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("material_id", dto.MaterialID).Required()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeInbound), string(TypeOutbound), string(TypeAdjustment))
	v.Field("quantity", dto.Quantity).Required().MinInt(1, errs.ErrCodeInvalidQuantity)
	if dto.UnitPrice != nil && *dto.UnitPrice < 0 {
		return errs.NewValidationFieldError("unit_price", "unit_price cannot be negative", errs.ErrCodeValidationFailed)
	}
	return v.Validate()
}
