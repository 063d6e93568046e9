package channel

import (
	"encoding/json"
	"fmt"

	"github.com/relayroom/relayroom/internal/core"
	"github.com/relayroom/relayroom/internal/proto"
)

// eventFromRaw parses an inbound frame into the event union. A frame that
// is not JSON or matches no known variant is a protocol error; the caller
// drops it.
func eventFromRaw(raw []byte) (core.Event, error) {
	var f proto.Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return core.Event{}, fmt.Errorf("decode frame: %w", err)
	}
	return eventFromFrame(f)
}

func eventFromFrame(f proto.Frame) (core.Event, error) {
	switch f.Type {
	case proto.TypeMessage:
		return core.Event{
			Kind:      core.EventMessage,
			Username:  f.Username,
			Content:   f.Content,
			Timestamp: f.Timestamp,
		}, nil
	case proto.TypeUserJoined, proto.TypeUserLeft:
		return core.Event{
			Kind:    core.EventSystem,
			Content: f.Content,
		}, nil
	default:
		return core.Event{}, fmt.Errorf("unknown frame type %q", f.Type)
	}
}
