package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bilemo-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims is the JWT payload identifying the principal.
type CustomClaims struct {
	UserID int      `json:"id"`
	Email  string   `json:"username"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

func (c *CustomClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// AuthenticateUser checks a plaintext password against the stored hash.
func AuthenticateUser(ctx context.Context, user model.User, password string) (*model.User, error) {
	if user.PasswordHash == "" {
		return nil, model.ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return &user, nil
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// IssueAccessToken signs a token for user valid for the configured TTL.
func (s *TokenService) IssueAccessToken(user model.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret not set")
	}
	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAccessToken parses and validates a token string.
func (s *TokenService) VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("jwt secret not set")
	}
	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
