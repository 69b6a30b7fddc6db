package user

import (
	"log/slog"
	"strings"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

// GetEmployee resolves a user and checks they carry the EMPLOYEE role.
// Requisitions may only be raised for employees.
func (s *Service) GetEmployee(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !u.IsEmployee() {
		return nil, ErrNotAnEmployee
	}
	return u, nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	return s.repo.GetByEmail(strings.TrimSpace(email))
}

func (s *Service) Create(u *User) error {
	if u.Email != nil {
		existing, err := s.repo.GetByEmail(*u.Email)
		if err == nil && existing != nil {
			return ErrDuplicateEmail
		}
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "role", u.Role)
		return err
	}
	return nil
}

func (s *Service) List() ([]*User, error) {
	return s.repo.List()
}
