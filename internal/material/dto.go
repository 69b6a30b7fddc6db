package material

import (
	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/core/common/validation"
)

type CreateMaterialDTO struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Unit         string `json:"unit"`
	UnitPrice    *int64 `json:"unit_price,omitempty"`
	MinimumStock int64  `json:"minimum_stock"`
}

func (dto CreateMaterialDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("code", dto.Code).Required().MaxLength(50)
	v.Field("unit", dto.Unit).Required().MaxLength(20)
	if dto.MinimumStock < 0 {
		return errs.NewValidationFieldError("minimum_stock", "minimum_stock cannot be negative", errs.ErrCodeValidationFailed)
	}
	if dto.UnitPrice != nil && *dto.UnitPrice < 0 {
		return errs.NewValidationFieldError("unit_price", "unit_price cannot be negative", errs.ErrCodeValidationFailed)
	}
	return v.Validate()
}

// UpdateMaterialDTO carries a partial update; nil fields are left untouched.
type UpdateMaterialDTO struct {
	Name         *string `json:"name,omitempty"`
	Code         *string `json:"code,omitempty"`
	Unit         *string `json:"unit,omitempty"`
	UnitPrice    *int64  `json:"unit_price,omitempty"`
	MinimumStock *int64  `json:"minimum_stock,omitempty"`
}

func (dto UpdateMaterialDTO) Validate() *errs.AppError {
	if dto.Name != nil && *dto.Name == "" {
		return errs.NewValidationFieldError("name", "name cannot be empty", errs.ErrCodeValidationFailed)
	}
	if dto.Code != nil && *dto.Code == "" {
		return errs.NewValidationFieldError("code", "code cannot be empty", errs.ErrCodeValidationFailed)
	}
	if dto.Unit != nil && *dto.Unit == "" {
		return errs.NewValidationFieldError("unit", "unit cannot be empty", errs.ErrCodeValidationFailed)
	}
	if dto.MinimumStock != nil && *dto.MinimumStock < 0 {
		return errs.NewValidationFieldError("minimum_stock", "minimum_stock cannot be negative", errs.ErrCodeValidationFailed)
	}
	if dto.UnitPrice != nil && *dto.UnitPrice < 0 {
		return errs.NewValidationFieldError("unit_price", "unit_price cannot be negative", errs.ErrCodeValidationFailed)
	}
	return nil
}
