package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/averoza/stockroom/internal/user"
)

// SessionCookieName is the cookie carrying the employee portal session token.
const SessionCookieName = "employee_session"

type ctxKey string

// ContextUserKey holds the authenticated *user.User for the request.
const ContextUserKey ctxKey = "authUser"

func UserFromContext(ctx context.Context) *user.User {
	if ctx == nil {
		return nil
	}
	if u, ok := ctx.Value(ContextUserKey).(*user.User); ok {
		return u
	}
	return nil
}

func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// Claims are the JWT claims carried by both staff and employee session tokens.
type Claims struct {
	UserID int64     `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	Role   user.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenGenerator creates and validates staff session tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *user.User) (string, error)
	GenerateRefreshToken(u *user.User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// SessionTokenGenerator creates and validates employee portal session tokens.
type SessionTokenGenerator interface {
	GenerateSessionToken(u *user.User) (string, error)
	ValidateSessionToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrDuplicateEmail     = errors.New("email already registered")
)

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(u *user.User) (string, error) {
	return signToken(u, j.AccessTokenSecret, j.AccessTokenTTL)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(u *user.User) (string, error) {
	return signToken(u, j.RefreshTokenSecret, j.RefreshTokenTTL)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, j.RefreshTokenSecret)
}

// SessionGenerator signs employee portal session tokens with a secret
// separate from the staff token secrets so neither kind is accepted in place
// of the other.
type SessionGenerator struct {
	Secret []byte
	TTL    time.Duration
}

func NewSessionGenerator(secret string, ttl time.Duration) *SessionGenerator {
	return &SessionGenerator{Secret: []byte(secret), TTL: ttl}
}

func (g *SessionGenerator) GenerateSessionToken(u *user.User) (string, error) {
	return signToken(u, g.Secret, g.TTL)
}

func (g *SessionGenerator) ValidateSessionToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, g.Secret)
}

func signToken(u *user.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	email := ""
	if u.Email != nil {
		email = *u.Email
	}
	claims := &Claims{
		UserID: u.ID,
		Email:  email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", u.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
