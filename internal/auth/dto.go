package auth

import (
	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required()
	v.Field("password", dto.Password).Required()
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshTokenDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", dto.RefreshToken).Required()
	return v.Validate()
}

// RegisterEmployeeDTO is the employee portal sign-up payload.
type RegisterEmployeeDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (dto RegisterEmployeeDTO) Validate() *errs.AppError {
	v := validation.NewValidator()
	v.Field("email", dto.Email).Required()
	v.Field("password", dto.Password).Required()
	v.Field("first_name", dto.FirstName).Required().MaxLength(100)
	v.Field("last_name", dto.LastName).Required().MaxLength(100)
	if dto.Password != "" && len(dto.Password) < 8 {
		return errs.NewValidationFieldError("password", "password must be at least 8 characters", errs.ErrCodeValidationFailed)
	}
	return v.Validate()
}
