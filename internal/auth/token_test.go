package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestInspectRecoversSubject(t *testing.T) {
	token := signedToken(t, "alice", time.Hour)

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Username() != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Username())
	}
	if ttl := claims.TTL(time.Now()); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
}

func TestInspectExpiredTokenStillReadable(t *testing.T) {
	// Inspection does not validate; an expired token still yields claims
	// with a zero remaining lifetime.
	token := signedToken(t, "alice", -time.Minute)

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if ttl := claims.TTL(time.Now()); ttl != 0 {
		t.Fatalf("expected zero ttl for expired token, got %v", ttl)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
