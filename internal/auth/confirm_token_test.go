package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmTokenRoundTrip(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	token, err := svc.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, svc.Verify(token, 42))
}

func TestConfirmTokenUserMismatch(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	token, err := svc.Generate(42)
	require.NoError(t, err)

	assert.False(t, svc.Verify(token, 7))
}

func TestConfirmTokenExpired(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	token, err := svc.generate(42, -time.Second)
	require.NoError(t, err)

	assert.False(t, svc.Verify(token, 42))
}

func TestConfirmTokenWrongSecret(t *testing.T) {
	issuer := NewConfirmTokenService("secret-one")
	verifier := NewConfirmTokenService("secret-two")

	token, err := issuer.Generate(42)
	require.NoError(t, err)

	assert.False(t, verifier.Verify(token, 42))
}

func TestConfirmTokenMalformed(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, svc.Verify(tt.token, 42))
		})
	}
}

func TestConfirmTokenTampered(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	token, err := svc.Generate(42)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	assert.False(t, svc.Verify(tampered, 42))
}

func TestConfirmTokenRejectsForeignPurpose(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	// Well-formed and correctly signed, but issued for a different intent.
	claims := &confirmClaims{
		Confirm: 42,
		Purpose: "password-reset",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.False(t, svc.Verify(token, 42))
}

func TestConfirmTokenRejectsUnsignedAlgorithm(t *testing.T) {
	svc := NewConfirmTokenService("test-secret")

	claims := &confirmClaims{
		Confirm: 42,
		Purpose: purposeConfirm,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.False(t, svc.Verify(token, 42))
}
