package proto

// Frame types the channel endpoint broadcasts. History replayed on join
// arrives as ordinary "message" frames.
const (
	TypeMessage    = "message"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
)

// Frame is the envelope for events arriving on the live channel.
type Frame struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Outbound is the only payload the client sends on the live channel.
type Outbound struct {
	Content string `json:"content"`
}
