package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/relayroom/relayroom/internal/core"
)

// LoginOptions carries the credentials and mode for the initial login.
type LoginOptions struct {
	Username string
	Password string
	Register bool
}

// Run logs in and drives the interactive loop: slash commands control the
// session, plain lines go out as chat messages, inbound events print as
// they arrive. Returns when stdin closes, /quit is entered, or the
// context is cancelled. Collaborator failures print and leave the prompt
// usable; nothing here is fatal.
func (a *App) Run(ctx context.Context, opts LoginOptions) error {
	if err := a.control.Login(ctx, opts.Username, opts.Password, opts.Register); err != nil {
		return err
	}
	defer a.control.Logout()

	out := os.Stdout
	a.control.Notify = func(ev core.Event) {
		printEvent(out, ev)
	}

	fmt.Fprintf(out, "logged in as %s\n", a.control.Username())
	a.printRooms(out)
	fmt.Fprintln(out, "type /help for commands")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if a.handleLine(ctx, out, line) {
				return nil
			}
		}
	}
}

// handleLine executes one input line, returning true to quit.
func (a *App) handleLine(ctx context.Context, out io.Writer, line string) bool {
	cmd, ok := parseCommand(line)
	if !ok {
		if err := a.control.SendMessage(ctx, line); err != nil {
			fmt.Fprintf(out, "! send failed: %v\n", err)
		}
		return false
	}

	switch cmd.name {
	case "rooms":
		if err := a.control.RefreshRooms(ctx); err != nil {
			fmt.Fprintf(out, "! could not refresh rooms: %v\n", err)
		}
		a.printRooms(out)
	case "join":
		room, found := a.findRoom(ctx, cmd.arg)
		if !found {
			fmt.Fprintf(out, "! no room named %q\n", cmd.arg)
			return false
		}
		if err := a.control.JoinRoom(ctx, room); err != nil {
			fmt.Fprintf(out, "! join failed: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "-- joined %s --\n", room.Name)
	case "leave":
		a.control.LeaveRoom()
		fmt.Fprintln(out, "-- left room --")
	case "create":
		room, err := a.control.CreateRoom(ctx, cmd.arg)
		if err != nil {
			fmt.Fprintf(out, "! create failed: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "-- created %s --\n", room.Name)
	case "delete":
		room, found := a.findRoom(ctx, cmd.arg)
		if !found {
			fmt.Fprintf(out, "! no room named %q\n", cmd.arg)
			return false
		}
		if err := a.control.DeleteRoom(ctx, room.ID); err != nil {
			fmt.Fprintf(out, "! delete failed: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "-- deleted %s --\n", room.Name)
	case "quit", "exit":
		return true
	case "help":
		printHelp(out)
	default:
		fmt.Fprintf(out, "! unknown command /%s\n", cmd.name)
	}
	return false
}

// findRoom resolves a room by name or id from the directory snapshot,
// refreshing once when it is not there.
func (a *App) findRoom(ctx context.Context, nameOrID string) (core.Room, bool) {
	if room, ok := matchRoom(a.control, nameOrID); ok {
		return room, true
	}
	if err := a.control.RefreshRooms(ctx); err != nil {
		return core.Room{}, false
	}
	return matchRoom(a.control, nameOrID)
}

func (a *App) printRooms(out io.Writer) {
	rooms, _ := a.control.Rooms()
	if len(rooms) == 0 {
		fmt.Fprintln(out, "no rooms yet; /create <name> makes one")
		return
	}
	fmt.Fprintln(out, "rooms:")
	for _, room := range rooms {
		fmt.Fprintf(out, "  %s (by %s)\n", room.Name, room.CreatedBy)
	}
}
