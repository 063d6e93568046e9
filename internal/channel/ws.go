package channel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/relayroom/relayroom/internal/core"
	"github.com/relayroom/relayroom/internal/proto"
)

// WSDialer dials the websocket chat endpoint of the channel origin.
type WSDialer struct {
	origin string
	log    *zerolog.Logger
}

// NewWSDialer builds a dialer for the given origin, e.g. ws://localhost:8002.
func NewWSDialer(origin string, logger *zerolog.Logger) *WSDialer {
	return &WSDialer{origin: strings.TrimRight(origin, "/"), log: logger}
}

// Dial connects to {origin}/ws/{room_id}/{username} and starts the read
// loop.
func (d *WSDialer) Dial(ctx context.Context, roomID, username string) (Channel, error) {
	addr := fmt.Sprintf("%s/ws/%s/%s", d.origin, url.PathEscape(roomID), url.PathEscape(username))

	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial channel: %w", err)
	}

	readCtx, cancel := context.WithCancel(context.Background())
	ch := &wsChannel{
		conn:   conn,
		cancel: cancel,
		events: make(chan core.Event, 16),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
		log: d.log.With().
			Str("conn_id", uuid.NewString()).
			Str("room_id", roomID).
			Logger(),
	}
	ch.log.Debug().Str("username", username).Msg("channel open")
	go ch.readLoop(readCtx)
	return ch, nil
}

type wsChannel struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
	events chan core.Event
	errs   chan error
	done   chan struct{}
	log    zerolog.Logger

	closeOnce sync.Once
}

func (c *wsChannel) Events() <-chan core.Event { return c.events }

func (c *wsChannel) Errs() <-chan error { return c.errs }

// Send transmits a {content} payload. The sent text is not appended
// locally; the server broadcast is the only path into the chat log.
func (c *wsChannel) Send(ctx context.Context, content string) error {
	if c.closed() {
		return ErrClosed
	}
	if err := wsjson.Write(ctx, c.conn, proto.Outbound{Content: content}); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// Close tears the connection down and stops event delivery immediately.
// Frames still in flight at the transport layer are discarded. Idempotent.
func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "leaving")
		c.log.Debug().Msg("channel closed")
	})
	return nil
}

func (c *wsChannel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *wsChannel) readLoop(ctx context.Context) {
	defer close(c.events)
	defer close(c.errs)

	for {
		_, raw, err := c.conn.Read(ctx)
		if err != nil {
			if c.closed() || errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			c.log.Warn().Err(err).Msg("channel transport failed")
			c.errs <- core.NewChatError(core.ErrCodeChannel, "transport failed", err)
			return
		}

		ev, err := eventFromRaw(raw)
		if err != nil {
			// One malformed broadcast must not kill an otherwise healthy
			// session: log and drop the frame.
			c.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}

		select {
		case <-c.done:
			return
		case c.events <- ev:
		}
	}
}
