package jwt

import (
	"context"
	"testing"
	"time"

	"recipeclip/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, audience string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}{"cook@example.com", claims})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenHS256(t *testing.T) {
	service := NewJWTService(context.Background(), testSecret, "")
	token := signToken(t, testSecret, "user-123", "authenticated", time.Now().Add(time.Hour))

	user, err := service.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "cook@example.com", user.Email)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	service := NewJWTService(context.Background(), testSecret, "")
	token := signToken(t, "other-secret", "user-123", "authenticated", time.Now().Add(time.Hour))

	_, err := service.ValidateToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidateTokenExpired(t *testing.T) {
	service := NewJWTService(context.Background(), testSecret, "")
	token := signToken(t, testSecret, "user-123", "authenticated", time.Now().Add(-time.Hour))

	_, err := service.ValidateToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestValidateTokenWrongAudience(t *testing.T) {
	service := NewJWTService(context.Background(), testSecret, "")
	token := signToken(t, testSecret, "user-123", "service_role", time.Now().Add(time.Hour))

	_, err := service.ValidateToken(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewJWTService(context.Background(), testSecret, "")

	_, err := service.ValidateToken(context.Background(), "not.a.token")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = service.ValidateToken(context.Background(), "definitely-not-a-jwt")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewJWTService(context.Background(), "", "").Configured())
	assert.True(t, NewJWTService(context.Background(), testSecret, "").Configured())
	assert.True(t, NewJWTService(context.Background(), "", "https://proj.supabase.co").Configured())
}
