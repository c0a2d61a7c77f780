package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bilemo-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	timeNow = time.Now
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	require.NotEqual(t, "pw", hash)
	require.NoError(t, ComparePassword(hash, "pw"))
	require.Error(t, ComparePassword(hash, "other"))

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("gen") }
	_, err = HashPassword("pw")
	require.EqualError(t, err, "gen")
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	bcryptCompareHashAndPassword = func(hash, pw []byte) error {
		if string(hash) == "h" && string(pw) == "pw" {
			return nil
		}
		return bcrypt.ErrMismatchedHashAndPassword
	}
	u := model.User{ID: 1, PasswordHash: "h"}

	got, err := AuthenticateUser(context.Background(), u, "pw")
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)

	_, err = AuthenticateUser(context.Background(), u, "bad")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = AuthenticateUser(context.Background(), model.User{}, "")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestIssueAndVerify(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s := NewTokenService("secret", time.Minute)

	tok, err := s.IssueAccessToken(model.User{ID: 5, Email: "admin@mail.com", Roles: []string{model.RoleAdmin}})
	require.NoError(t, err)

	claims, err := s.VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.Equal(t, "admin@mail.com", claims.Email)
	require.True(t, claims.HasRole(model.RoleAdmin))
	require.False(t, claims.HasRole(model.RoleUser))
	require.Equal(t, "5", claims.Subject)
}

func TestVerifyRejects(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s := NewTokenService("secret", time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := NewTokenService("other", time.Minute).IssueAccessToken(model.User{ID: 1})
		require.NoError(t, err)
		_, err = s.VerifyAccessToken(tok)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		timeNow = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, err := s.IssueAccessToken(model.User{ID: 1})
		require.NoError(t, err)
		timeNow = time.Now
		_, err = s.VerifyAccessToken(tok)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.VerifyAccessToken(tok)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.VerifyAccessToken("not-a-token")
		require.Error(t, err)
	})

	t.Run("parser error", func(t *testing.T) {
		parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
			return nil, errors.New("parse")
		}
		_, err := s.VerifyAccessToken("x")
		require.EqualError(t, err, "parse")
	})
}

func TestMissingSecret(t *testing.T) {
	s := NewTokenService("", time.Minute)
	_, err := s.IssueAccessToken(model.User{})
	require.Error(t, err)
	_, err = s.VerifyAccessToken("x")
	require.Error(t, err)
}
