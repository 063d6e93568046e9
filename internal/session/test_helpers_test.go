package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/relayroom/relayroom/internal/channel"
	"github.com/relayroom/relayroom/internal/core"
	"github.com/relayroom/relayroom/internal/log"
)

// fakeDirectory implements Directory in memory and records the call order
// so tests can assert sequencing.
type fakeDirectory struct {
	mu          sync.Mutex
	rooms       []core.Room
	ops         []string
	registerErr error
	loginErr    error
	listErr     error
	deleteErr   error
	onList      func()
}

func newFakeDirectory(rooms ...core.Room) *fakeDirectory {
	return &fakeDirectory{rooms: rooms}
}

func (f *fakeDirectory) op(name string) {
	f.mu.Lock()
	f.ops = append(f.ops, name)
	f.mu.Unlock()
}

func (f *fakeDirectory) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeDirectory) Register(_ context.Context, _, _ string) error {
	f.op("register")
	return f.registerErr
}

func (f *fakeDirectory) Login(_ context.Context, _, _ string) (string, error) {
	f.op("login")
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "opaque-bearer-token", nil
}

func (f *fakeDirectory) ListRooms(_ context.Context, _ string) ([]core.Room, error) {
	f.op("list")
	if f.onList != nil {
		f.onList()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Room(nil), f.rooms...), nil
}

func (f *fakeDirectory) CreateRoom(_ context.Context, _, name string) (core.Room, error) {
	f.op("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	room := core.Room{ID: fmt.Sprintf("r%d", len(f.rooms)+1), Name: name, CreatedBy: "alice"}
	f.rooms = append(f.rooms, room)
	return room, nil
}

func (f *fakeDirectory) DeleteRoom(_ context.Context, _, id string) error {
	f.op("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, room := range f.rooms {
		if room.ID == id {
			f.rooms = append(f.rooms[:i], f.rooms[i+1:]...)
			break
		}
	}
	return nil
}

// fakeChannel stands in for a live connection. Close only marks the
// channel, so tests can still push tardy frames through it afterwards,
// the way a transport can deliver frames already in flight.
type fakeChannel struct {
	roomID   string
	username string
	events   chan core.Event
	errs     chan error

	mu     sync.Mutex
	closed bool
	sent   []string
}

func (c *fakeChannel) Events() <-chan core.Event { return c.events }

func (c *fakeChannel) Errs() <-chan error { return c.errs }

func (c *fakeChannel) Send(_ context.Context, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return channel.ErrClosed
	}
	c.sent = append(c.sent, content)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeChannel) sentMessages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func (c *fakeChannel) deliver(ev core.Event) {
	c.events <- ev
}

func (c *fakeChannel) fail(err error) {
	c.errs <- err
}

type fakeDialer struct {
	mu       sync.Mutex
	channels []*fakeChannel
	dialErr  error
}

func (d *fakeDialer) Dial(_ context.Context, roomID, username string) (channel.Channel, error) {
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	ch := &fakeChannel{
		roomID:   roomID,
		username: username,
		events:   make(chan core.Event, 16),
		errs:     make(chan error, 1),
	}
	d.mu.Lock()
	d.channels = append(d.channels, ch)
	d.mu.Unlock()
	return ch, nil
}

func (d *fakeDialer) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	open := 0
	for _, ch := range d.channels {
		if !ch.isClosed() {
			open++
		}
	}
	return open
}

func (d *fakeDialer) last() *fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.channels) == 0 {
		return nil
	}
	return d.channels[len(d.channels)-1]
}

func newTestController(dir Directory, dialer channel.Dialer) *Controller {
	return NewController(dir, dialer, log.Nop())
}

func loggedIn(t *testing.T, dir *fakeDirectory, dialer *fakeDialer) *Controller {
	t.Helper()
	c := newTestController(dir, dialer)
	if err := c.Login(context.Background(), "alice", "secret", false); err != nil {
		t.Fatalf("login: %v", err)
	}
	return c
}

// waitFor polls until cond holds, in the absence of any event to block on.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// settle gives background pumps a beat to (not) act before a negative
// assertion.
func settle() {
	time.Sleep(75 * time.Millisecond)
}
