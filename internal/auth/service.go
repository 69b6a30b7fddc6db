package auth

import (
	"log/slog"

	"github.com/averoza/stockroom/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetByID(id int64) (*user.User, error)
	GetByEmail(email string) (*user.User, error)
}

// Service authenticates staff accounts and issues the access/refresh token
// pair.
type Service struct {
	users      UserStore
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserStore, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate validates staff credentials and returns a token pair. Missing
// users and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if u.PasswordHash == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

// RefreshTokens validates the refresh token and issues a fresh pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *user.User) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err, "user_id", u.ID)
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u)
	if err != nil {
		s.logger.Error("failed to sign refresh token", "error", err, "user_id", u.ID)
		return AuthTokens{}, err
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) GetUser(id int64) (*user.User, error) {
	return s.users.GetByID(id)
}

// HashPassword creates a bcrypt hash for staff accounts (used by the seeder).
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
