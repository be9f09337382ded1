package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ConfirmTokenTTL is how long an account-confirmation token stays valid.
const ConfirmTokenTTL = 900 * time.Second

// purposeConfirm tags confirmation tokens so they cannot be replayed for a
// different intent even when otherwise well-formed.
const purposeConfirm = "confirm"

// confirmClaims binds a user id to the confirmation intent.
type confirmClaims struct {
	Confirm uint   `json:"confirm"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ConfirmTokenService issues and checks signed, time-limited account
// confirmation tokens. Tokens are never persisted; the HMAC signature and
// expiry carry all the state.
type ConfirmTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewConfirmTokenService creates a token service signing with the given
// secret and the default 900-second lifetime.
func NewConfirmTokenService(secret string) *ConfirmTokenService {
	return &ConfirmTokenService{secret: []byte(secret), ttl: ConfirmTokenTTL}
}

// Generate returns an opaque signed token binding userID to the
// confirmation intent for the service's lifetime window.
func (s *ConfirmTokenService) Generate(userID uint) (string, error) {
	return s.generate(userID, s.ttl)
}

func (s *ConfirmTokenService) generate(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &confirmClaims{
		Confirm: userID,
		Purpose: purposeConfirm,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify reports whether tokenString is a valid confirmation token for
// expectedUserID. Malformed tokens, bad signatures, expiry, a foreign user
// id, and a foreign purpose all collapse to false; callers never learn
// which check failed.
func (s *ConfirmTokenService) Verify(tokenString string, expectedUserID uint) bool {
	var claims confirmClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	if claims.Purpose != purposeConfirm {
		return false
	}
	return claims.Confirm == expectedUserID
}
