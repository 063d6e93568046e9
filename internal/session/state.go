package session

import "github.com/relayroom/relayroom/internal/core"

// Read-side accessors for presentation surfaces. All return copies; the
// controller keeps exclusive ownership of the underlying state.

// Username returns the authenticated identity, empty when logged out.
func (c *Controller) Username() string {
	return c.creds.Username()
}

// Authenticated reports whether identity and credential are both set.
func (c *Controller) Authenticated() bool {
	return c.creds.Authenticated()
}

// CurrentRoom returns the joined room, if any.
func (c *Controller) CurrentRoom() (core.Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room == nil {
		return core.Room{}, false
	}
	return *c.room, true
}

// Rooms returns the last directory snapshot and its sequence stamp. The
// stamp only increases; a higher value means a later snapshot.
func (c *Controller) Rooms() ([]core.Room, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Room, len(c.rooms))
	copy(out, c.rooms)
	return out, c.roomSeq
}

// Events returns the chat log snapshot in receipt order.
func (c *Controller) Events() []core.Event {
	return c.chatLog.Snapshot()
}

// Connected reports whether a live, non-failed channel is open.
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch != nil && !c.chDead
}

// LastAuthError returns the most recent login/registration failure
// message, empty after a successful login.
func (c *Controller) LastAuthError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authErr
}
