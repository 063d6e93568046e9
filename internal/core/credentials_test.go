package core

import "testing"

func TestCredentialsLifecycle(t *testing.T) {
	c := NewCredentials()
	if c.Authenticated() {
		t.Fatal("fresh credentials must be unauthenticated")
	}

	c.Set("alice", "tok-123")
	if !c.Authenticated() {
		t.Fatal("expected authenticated after Set")
	}
	if c.Username() != "alice" || c.Token() != "tok-123" {
		t.Fatalf("unexpected identity: %q / %q", c.Username(), c.Token())
	}

	c.Clear()
	if c.Authenticated() || c.Token() != "" || c.Username() != "" {
		t.Fatal("expected empty credentials after Clear")
	}
	// Clearing twice is harmless.
	c.Clear()
}
