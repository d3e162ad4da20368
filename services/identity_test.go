package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTicket(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return ticket
}

func TestJWTIdentityResolver(t *testing.T) {
	resolver := NewJWTIdentityResolver("secret")

	ticket := signTicket(t, "secret", jwt.MapClaims{
		"sub":      "u1",
		"username": "PlayerOne",
		"avatarId": "7",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	identity, err := resolver.Resolve(ticket)
	require.NoError(t, err)

	assert.Equal(t, "u1", identity.Id)
	assert.Equal(t, "PlayerOne", identity.Username)
	assert.Equal(t, "7", identity.AvatarId)
}

func TestJWTIdentityResolverRejects(t *testing.T) {
	resolver := NewJWTIdentityResolver("secret")

	tests := []struct {
		name   string
		ticket string
	}{
		{name: "garbage", ticket: "not-a-jwt"},
		{name: "wrong secret", ticket: signTicket(t, "other", jwt.MapClaims{"sub": "u1"})},
		{
			name: "expired",
			ticket: signTicket(t, "secret", jwt.MapClaims{
				"sub": "u1",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
		},
		{name: "no subject", ticket: signTicket(t, "secret", jwt.MapClaims{"username": "x"})},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := resolver.Resolve(test.ticket)
			assert.ErrorIs(t, err, InvalidTicket)
		})
	}
}
