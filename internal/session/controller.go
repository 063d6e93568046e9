package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/relayroom/relayroom/internal/auth"
	"github.com/relayroom/relayroom/internal/channel"
	"github.com/relayroom/relayroom/internal/core"
)

// Directory is the request/response surface the controller consumes for
// authentication and the room directory.
type Directory interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	ListRooms(ctx context.Context, token string) ([]core.Room, error)
	CreateRoom(ctx context.Context, token, name string) (core.Room, error)
	DeleteRoom(ctx context.Context, token, id string) error
}

// Controller owns the session: credentials, the mirrored room directory,
// the joined room, the chat log, and the single live channel. Every state
// mutation funnels through it; no other component opens, closes, or sends
// on the channel.
type Controller struct {
	dir    Directory
	dialer channel.Dialer
	log    *zerolog.Logger

	creds   *core.Credentials
	chatLog *core.Log

	// Notify, when set, runs after every appended event, outside the
	// lock. Presentation hook only; it must not call back into the
	// controller.
	Notify func(core.Event)

	mu      sync.Mutex
	rooms   []core.Room
	roomSeq uint64
	room    *core.Room
	ch      channel.Channel
	chDead  bool
	epoch   uint64
	authErr string
}

// NewController wires a controller over the given collaborators.
func NewController(dir Directory, dialer channel.Dialer, logger *zerolog.Logger) *Controller {
	return &Controller{
		dir:     dir,
		dialer:  dialer,
		log:     logger,
		creds:   core.NewCredentials(),
		chatLog: core.NewLog(),
	}
}

// Login authenticates the user, registering first when asked. A register
// rejection (a taken username included) stops the flow before any login
// call. On success the identity and credential are set, the last auth
// error clears, and the directory refreshes. On failure nothing is
// mutated. No retries.
func (c *Controller) Login(ctx context.Context, username, password string, register bool) error {
	if register {
		if err := c.dir.Register(ctx, username, password); err != nil {
			c.setAuthErr(err)
			return err
		}
	}

	token, err := c.dir.Login(ctx, username, password)
	if err != nil {
		c.setAuthErr(err)
		return err
	}

	// The submitted username stands unless the token carries a canonical
	// subject set by the server.
	if claims, inspectErr := auth.Inspect(token); inspectErr == nil {
		if sub := claims.Username(); sub != "" {
			username = sub
		}
		if ttl := claims.TTL(time.Now()); ttl > 0 {
			c.log.Debug().Dur("token_ttl", ttl).Msg("credential lifetime")
		}
	} else {
		c.log.Debug().Err(inspectErr).Msg("credential not inspectable")
	}

	c.creds.Set(username, token)
	c.setAuthErr(nil)

	if err := c.RefreshRooms(ctx); err != nil {
		// Directory failures never undo a successful login.
		c.log.Warn().Err(err).Msg("initial directory refresh failed")
	}

	c.log.Info().Str("username", username).Msg("logged in")
	return nil
}

// Logout tears the session down: channel first, so late inbound events
// cannot land in a torn-down log, then room, chat log, directory,
// identity and credential, in that order. Idempotent.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.closeChannelLocked()
	c.room = nil
	c.chatLog.Reset()
	c.rooms = nil
	c.mu.Unlock()

	if c.creds.Authenticated() {
		c.log.Info().Msg("logged out")
	}
	c.creds.Clear()
}

// JoinRoom binds the session to the given room. Any previous channel
// closes synchronously first, and the chat log resets before the new
// channel can deliver, so stale messages never show under the new room.
func (c *Controller) JoinRoom(ctx context.Context, room core.Room) error {
	if !c.creds.Authenticated() {
		return core.ErrNotAuthenticated
	}
	username := c.creds.Username()

	c.mu.Lock()
	c.closeChannelLocked()
	epoch := c.epoch
	bound := room
	c.room = &bound
	c.chatLog.Reset()
	c.mu.Unlock()

	ch, err := c.dialer.Dial(ctx, room.ID, username)
	if err != nil {
		c.log.Error().Err(err).Str("room_id", room.ID).Msg("channel dial failed")
		c.mu.Lock()
		if c.epoch == epoch {
			c.room = nil
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.epoch != epoch {
		// Preempted while dialing; the newer operation owns the session.
		c.mu.Unlock()
		_ = ch.Close()
		return nil
	}
	c.ch = ch
	c.chDead = false
	c.mu.Unlock()

	go c.pump(ch, epoch)

	c.log.Info().Str("room_id", room.ID).Str("room", room.Name).Msg("joined room")
	return nil
}

// LeaveRoom closes the channel and clears room and log. A no-op when no
// room is joined.
func (c *Controller) LeaveRoom() {
	c.mu.Lock()
	if c.room == nil && c.ch == nil {
		c.mu.Unlock()
		return
	}
	c.closeChannelLocked()
	c.room = nil
	c.chatLog.Reset()
	c.mu.Unlock()
	c.log.Info().Msg("left room")
}

// SendMessage transmits content over the live channel. Blank content and
// a missing channel are silent no-ops. The log gains the message only
// when the server echoes it back; the endpoint echoing the sender's own
// message is a documented contract on the collaborator.
func (c *Controller) SendMessage(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	if ch == nil {
		return nil
	}

	if err := ch.Send(ctx, content); err != nil {
		c.log.Error().Err(err).Msg("send failed")
		return err
	}
	return nil
}

// RefreshRooms replaces the directory snapshot with the server's current
// list. Overlapping refreshes are not queued; the last response to land
// wins.
func (c *Controller) RefreshRooms(ctx context.Context) error {
	token := c.creds.Token()
	if token == "" {
		return core.ErrNotAuthenticated
	}

	rooms, err := c.dir.ListRooms(ctx, token)
	if err != nil {
		c.log.Warn().Err(err).Msg("directory refresh failed")
		return err
	}

	c.mu.Lock()
	c.rooms = rooms
	c.roomSeq++
	c.mu.Unlock()
	return nil
}

// CreateRoom creates a room, then refreshes the directory rather than
// patching the snapshot locally.
func (c *Controller) CreateRoom(ctx context.Context, name string) (core.Room, error) {
	token := c.creds.Token()
	if token == "" {
		return core.Room{}, core.ErrNotAuthenticated
	}

	room, err := c.dir.CreateRoom(ctx, token, name)
	if err != nil {
		return core.Room{}, err
	}

	_ = c.RefreshRooms(ctx)
	return room, nil
}

// DeleteRoom deletes a room. Deleting the joined room leaves it before
// the refreshed directory snapshot applies, so no view stays bound to a
// room that no longer exists.
func (c *Controller) DeleteRoom(ctx context.Context, id string) error {
	token := c.creds.Token()
	if token == "" {
		return core.ErrNotAuthenticated
	}

	if err := c.dir.DeleteRoom(ctx, token, id); err != nil {
		return err
	}

	c.mu.Lock()
	joined := c.room != nil && c.room.ID == id
	c.mu.Unlock()
	if joined {
		c.LeaveRoom()
	}

	_ = c.RefreshRooms(ctx)
	return nil
}

// pump appends inbound events for as long as the channel's epoch is
// current. Events from a preempted or closed channel are discarded even
// if the transport already delivered them.
func (c *Controller) pump(ch channel.Channel, epoch uint64) {
	events, errs := ch.Events(), ch.Errs()
	for events != nil || errs != nil {
		select {
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !c.append(epoch, ev) {
				return
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			// Transport failure leaves a dead channel; rejoining the
			// room is the only recovery.
			c.log.Error().Err(err).Msg("channel failed")
			c.mu.Lock()
			if c.epoch == epoch {
				c.chDead = true
			}
			c.mu.Unlock()
		}
	}
}

// append adds an event to the chat log if the originating channel is
// still current. Returns false once the channel has been preempted.
func (c *Controller) append(epoch uint64, ev core.Event) bool {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return false
	}
	c.chatLog.Append(ev)
	notify := c.Notify
	c.mu.Unlock()

	if notify != nil {
		notify(ev)
	}
	return true
}

// closeChannelLocked invalidates the current epoch and closes any open
// channel. Events still queued from the old channel fail the epoch check
// in append.
func (c *Controller) closeChannelLocked() {
	c.epoch++
	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	c.chDead = false
}

func (c *Controller) setAuthErr(err error) {
	c.mu.Lock()
	if err == nil {
		c.authErr = ""
	} else {
		c.authErr = err.Error()
	}
	c.mu.Unlock()
}
