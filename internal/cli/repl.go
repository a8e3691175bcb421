package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the shell needs. App satisfies it; tests
// provide a stub.
type execIface interface {
	Buckets(ctx context.Context) error
	Date(ctx context.Context, key string) error
	Today(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context, mediaID string) error
	Later(ctx context.Context, mediaID string) error
	Undo(ctx context.Context) error
	BinList(ctx context.Context) error
	BinRestore(ctx context.Context, mediaID string) error
	BinPurge(ctx context.Context, mediaID string) error
	BinSweep(ctx context.Context) error
	BinEmpty(ctx context.Context) error
	Stats(ctx context.Context) error
}

const helpText = `Available commands:
  buckets              display dates with item counts
  date <yyyy-mm-dd>    items shown on a date
  today                items visible today
  (l)ist               working list with positions
  delete <id>          move to the recycle bin
  later <id>           hide until a later date
  (u)ndo               undo the last delete or move to later
  bin                  list the recycle bin
  restore <id>         restore from the recycle bin
  purge <id>           delete permanently
  sweep                purge expired items
  empty                empty the recycle bin
  stats                counters
  exit | quit`

// runREPL reads commands line by line from reader and dispatches them to a.
// Command errors are printed and the loop goes on. It returns on EOF or on
// "exit"/"quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gallerybin (%s)> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withArg := func(name string, fn func(context.Context, string) error) error {
			if len(args) == 0 {
				fmt.Fprintf(w, "Usage: %s <id>\n", name)
				return nil
			}
			return fn(ctx, args[0])
		}

		var cmdErr error
		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)
		case "buckets":
			cmdErr = a.Buckets(ctx)
		case "date":
			cmdErr = withArg("date", a.Date)
		case "today":
			cmdErr = a.Today(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "delete", "rm":
			cmdErr = withArg("delete", a.Delete)
		case "later":
			cmdErr = withArg("later", a.Later)
		case "u", "undo":
			cmdErr = a.Undo(ctx)
		case "bin":
			cmdErr = a.BinList(ctx)
		case "restore":
			cmdErr = withArg("restore", a.BinRestore)
		case "purge":
			cmdErr = withArg("purge", a.BinPurge)
		case "sweep":
			cmdErr = a.BinSweep(ctx)
		case "empty":
			cmdErr = a.BinEmpty(ctx)
		case "stats":
			cmdErr = a.Stats(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

// Shell runs the interactive shell with a background sweeper.
func (a *App) Shell(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		a.StartSweeper(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	fmt.Fprintln(a.out, "gallerybin shell (type 'help' for commands)")
	if err := a.reloadView(ctx); err != nil {
		return err
	}
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader, a.out)
	return nil
}
