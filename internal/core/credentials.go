package core

import "sync"

// Credentials holds the bearer token and identity for the current session.
// The token is opaque to the client and lives in process memory only.
type Credentials struct {
	mu       sync.RWMutex
	username string
	token    string
}

// NewCredentials constructs an empty, unauthenticated holder.
func NewCredentials() *Credentials {
	return &Credentials{}
}

// Set stores the identity and token issued at login.
func (c *Credentials) Set(username, token string) {
	c.mu.Lock()
	c.username = username
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, empty when unauthenticated.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Username returns the authenticated identity, empty when unauthenticated.
func (c *Credentials) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Authenticated reports whether both identity and token are set.
func (c *Credentials) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username != "" && c.token != ""
}

// Clear forgets identity and token.
func (c *Credentials) Clear() {
	c.mu.Lock()
	c.username = ""
	c.token = ""
	c.mu.Unlock()
}
