package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims authorize API calls on behalf of a user within one session.
type AccessClaims struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// RefreshClaims bind a refresh token to a session and its stored hash.
type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	Hash      string `json:"hash"`
	jwt.RegisteredClaims
}

type ConfirmEmailClaims struct {
	ConfirmEmailUserID string `json:"confirmEmailUserId"`
	jwt.RegisteredClaims
}

// Key is a named secret with the lifetime of tokens signed by it.
type Key struct {
	Secret []byte
	TTL    time.Duration
}

// Registered returns iat/exp claims for a token issued at now.
func Registered(now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}
