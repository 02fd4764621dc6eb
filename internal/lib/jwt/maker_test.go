package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		role     string
	}{
		{
			name:     "администратор",
			username: "admin_user",
			role:     "admin",
		},
		{
			name:     "обычный пользователь",
			username: "member42",
			role:     "user",
		},
		{
			name:     "имя пользователя с почтой",
			username: "user@domain.com",
			role:     "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "пустой токен",
			token: "",
		},
		{
			name:  "мусор вместо токена",
			token: "not.a.token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("correct_key", 15*time.Minute)
	other := NewJWTMaker("wrong_key", 15*time.Minute)

	token, err := maker.GenerateToken("member42", "user")
	require.NoError(t, err)

	claims, err := other.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTMaker_ParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("member42", "user")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}
