package core

// Room is a directory entry mirrored from the server. Rooms are immutable
// from the client's point of view; the whole set is refreshed after every
// mutation instead of being patched locally.
type Room struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at,omitempty"`
}
