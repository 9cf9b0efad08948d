package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Photo(ctx context.Context, path string) error
	ClearPhoto(ctx context.Context) error
	Clear(ctx context.Context) error
}

const helpText = "Available commands: show, edit, photo <path>, clearphoto, clear, exit"

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF or "exit"/"quit". Handlers prompt through the same reader, so it
// must not be wrapped in anything that buffers ahead. Handler errors are
// reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("profile %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		err = nil
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "show":
			err = a.Show(ctx)

		case "edit":
			err = a.Edit(ctx)

		case "photo":
			if len(args) == 0 {
				printlnFn("Usage: photo <path>")
				continue
			}
			err = a.Photo(ctx, strings.Join(args, " "))

		case "clearphoto":
			err = a.ClearPhoto(ctx)

		case "clear":
			err = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
