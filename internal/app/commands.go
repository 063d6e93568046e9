package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/relayroom/relayroom/internal/core"
	"github.com/relayroom/relayroom/internal/session"
)

type command struct {
	name string
	arg  string
}

// parseCommand recognizes "/name arg..." lines. Anything else is chat
// text.
func parseCommand(line string) (command, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return command{}, false
	}

	fields := strings.SplitN(strings.TrimPrefix(trimmed, "/"), " ", 2)
	cmd := command{name: strings.ToLower(fields[0])}
	if len(fields) == 2 {
		cmd.arg = strings.TrimSpace(fields[1])
	}
	return cmd, true
}

func matchRoom(control *session.Controller, nameOrID string) (core.Room, bool) {
	rooms, _ := control.Rooms()
	for _, room := range rooms {
		if room.Name == nameOrID || room.ID == nameOrID {
			return room, true
		}
	}
	return core.Room{}, false
}

func printEvent(out io.Writer, ev core.Event) {
	switch ev.Kind {
	case core.EventMessage:
		fmt.Fprintf(out, "%s %s: %s\n", clock(ev.Timestamp), ev.Username, ev.Content)
	case core.EventSystem:
		fmt.Fprintf(out, "* %s\n", ev.Content)
	}
}

// clock renders an ISO-8601 timestamp as wall time, falling back to the
// raw string when it does not parse.
func clock(ts string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("15:04:05")
		}
	}
	return ts
}

func printHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  /rooms           refresh and list the room directory
  /join <name|id>  join a room (leaves the current one first)
  /leave           leave the current room
  /create <name>   create a room
  /delete <name|id> delete a room
  /quit            log out and exit
anything else is sent to the current room
`)
}
