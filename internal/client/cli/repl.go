package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Trips(ctx context.Context) error
	Trip(ctx context.Context, id int64) error
	AddTrip(ctx context.Context) error
	EditTrip(ctx context.Context, id int64) error
	DeleteTrip(ctx context.Context, id int64) error
	AddEvent(ctx context.Context, tripID int64) error
	DeleteEvent(ctx context.Context, id int64) error
	AddMedia(ctx context.Context, eventID int64, path string) error
	DeleteMedia(ctx context.Context, id int64) error
}

type idCommand struct {
	usage string
	run   func(ctx context.Context, a execIface, id int64) error
}

var idCommands = map[string]idCommand{
	"trip":     {"trip <id>", func(ctx context.Context, a execIface, id int64) error { return a.Trip(ctx, id) }},
	"edittrip": {"edittrip <id>", func(ctx context.Context, a execIface, id int64) error { return a.EditTrip(ctx, id) }},
	"deltrip":  {"deltrip <id>", func(ctx context.Context, a execIface, id int64) error { return a.DeleteTrip(ctx, id) }},
	"addevent": {"addevent <trip id>", func(ctx context.Context, a execIface, id int64) error { return a.AddEvent(ctx, id) }},
	"delevent": {"delevent <id>", func(ctx context.Context, a execIface, id int64) error { return a.DeleteEvent(ctx, id) }},
	"delmedia": {"delmedia <id>", func(ctx context.Context, a execIface, id int64) error { return a.DeleteMedia(ctx, id) }},
}

// runREPL reads commands line by line from reader until EOF, "exit" or
// "quit". Handler errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("journal %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: trips, trip, addtrip, edittrip, deltrip, addevent, delevent, addmedia, delmedia, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "trips", "l":
			cmdErr = a.Trips(ctx)
		case "addtrip":
			cmdErr = a.AddTrip(ctx)

		case "addmedia":
			if len(args) != 2 {
				printlnFn("Usage: addmedia <event id> <file>")
				continue
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				printlnFn("Usage: addmedia <event id> <file>")
				continue
			}
			cmdErr = a.AddMedia(ctx, id, args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			c, ok := idCommands[cmd]
			if !ok {
				printlnFn("Unknown command:", cmd)
				continue
			}
			if len(args) != 1 {
				printlnFn("Usage:", c.usage)
				continue
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				printlnFn("Usage:", c.usage)
				continue
			}
			cmdErr = c.run(ctx, a, id)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
