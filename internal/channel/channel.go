package channel

import (
	"context"
	"errors"

	"github.com/relayroom/relayroom/internal/core"
)

// ErrClosed is returned by Send after the channel has been closed.
var ErrClosed = errors.New("channel closed")

// Channel is one live bidirectional connection bound to a (room, identity)
// pair. Events arrive strictly in receipt order. After Close nothing more
// is delivered, even frames already in flight at the transport layer. A
// transport failure surfaces once on Errs and leaves the channel dead;
// there is no automatic reconnect.
type Channel interface {
	Events() <-chan core.Event
	Errs() <-chan error
	Send(ctx context.Context, content string) error
	Close() error
}

// Dialer opens channels. The session controller owns at most one open
// channel at a time and reaches the transport only through this interface,
// so tests can swap it out.
type Dialer interface {
	Dial(ctx context.Context, roomID, username string) (Channel, error)
}
