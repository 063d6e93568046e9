package core

// EventKind distinguishes the variants of a chat event.
type EventKind int

const (
	// EventMessage is a user-authored chat message.
	EventMessage EventKind = iota
	// EventSystem is a join/leave/room-lifecycle notice.
	EventSystem
)

// Event is a single entry in the chat log. Entries are kept strictly in
// receipt order on the live channel; Timestamp is informational and never
// used for sorting.
type Event struct {
	Kind      EventKind
	Username  string
	Content   string
	Timestamp string // ISO-8601, as sent by the server
}
