package auth

import (
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/user"
)

type EmployeeUserStore interface {
	Create(u *user.User) error
	GetByID(id int64) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
}

// EmployeeService backs the employee self-service portal: registration,
// credential login and session issuance.
type EmployeeService struct {
	users    EmployeeUserStore
	sessions SessionTokenGenerator
	logger   *slog.Logger
}

func NewEmployeeService(users EmployeeUserStore, sessions SessionTokenGenerator, logger *slog.Logger) *EmployeeService {
	return &EmployeeService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Register creates an EMPLOYEE account. Email uniqueness is case-insensitive;
// the stored credential is the salted scrypt form, never the password.
func (s *EmployeeService) Register(dto RegisterEmployeeDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(dto.Email); err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashEmployeePassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to derive employee credential", "error", err)
		return nil, err
	}

	now := time.Now()
	email := dto.Email
	u := &user.User{
		Email:        &email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: &hash,
		Role:         user.RoleEmployee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(u); err != nil {
		if err == user.ErrDuplicateEmail {
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("failed to create employee account", "error", err)
		return nil, err
	}

	s.logger.Info("employee registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the credential and returns a session token for the employee.
// Unknown emails, wrong passwords and non-employee accounts all collapse to
// ErrInvalidCredentials.
func (s *EmployeeService) Login(dto LoginDTO) (string, *user.User, error) {
	if err := dto.Validate(); err != nil {
		return "", nil, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsEmployee() || u.PasswordHash == nil {
		return "", nil, ErrInvalidCredentials
	}

	ok, err := VerifyEmployeePassword(*u.PasswordHash, dto.Password)
	if err != nil {
		s.logger.Error("failed to verify employee credential", "error", err, "user_id", u.ID)
		return "", nil, ErrInvalidCredentials
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.GenerateSessionToken(u)
	if err != nil {
		s.logger.Error("failed to sign employee session", "error", err, "user_id", u.ID)
		return "", nil, err
	}

	return token, u, nil
}

// ResolveSession validates a session token and loads the employee behind it.
// A token for a user whose role is no longer EMPLOYEE resolves the user but
// the guard rejects it with Forbidden.
func (s *EmployeeService) ResolveSession(tokenString string) (*user.User, error) {
	claims, err := s.sessions.ValidateSessionToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}
