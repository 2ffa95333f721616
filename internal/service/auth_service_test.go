package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-ledger-api/internal/models"
	appErrors "github.com/noah-isme/sis-ledger-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: "secret", Issuer: "sis"})
	claims := models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sis",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	parsed, err := svc.ValidateToken(signToken(t, "secret", claims, jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, models.RoleStudent, parsed.Role)
}

func TestAuthServiceRejectsInvalidTokens(t *testing.T) {
	svc := NewAuthService(AuthConfig{AccessTokenSecret: "secret", Issuer: "sis"})
	valid := jwt.RegisteredClaims{Issuer: "sis", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"wrong secret": signToken(t, "other", models.JWTClaims{UserID: "u", Role: models.RoleAdmin, RegisteredClaims: valid}, jwt.SigningMethodHS256),
		"expired": signToken(t, "secret", models.JWTClaims{UserID: "u", Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "sis", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, jwt.SigningMethodHS256),
		"wrong issuer":  signToken(t, "secret", models.JWTClaims{UserID: "u", Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere"}}, jwt.SigningMethodHS256),
		"unknown role":  signToken(t, "secret", models.JWTClaims{UserID: "u", Role: "janitor", RegisteredClaims: valid}, jwt.SigningMethodHS256),
		"missing user":  signToken(t, "secret", models.JWTClaims{Role: models.RoleAdmin, RegisteredClaims: valid}, jwt.SigningMethodHS256),
		"wrong method":  signToken(t, "secret", models.JWTClaims{UserID: "u", Role: models.RoleAdmin, RegisteredClaims: valid}, jwt.SigningMethodHS512),
		"garbage":       "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}
