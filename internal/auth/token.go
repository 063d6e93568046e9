package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the registered claims the chat API places in its bearer
// tokens. The subject is the canonical username.
type Claims struct {
	jwt.RegisteredClaims
}

// Inspect decodes token claims without verifying the signature. The token
// stays opaque for authorization purposes; inspection only recovers the
// canonical username and the expiry for logging. Verification is the
// server's job.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Username returns the subject claim, empty when absent.
func (c *Claims) Username() string {
	return c.Subject
}

// TTL returns the remaining token lifetime, zero when expired or when no
// expiry is set.
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
