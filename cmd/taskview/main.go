// Command taskview is a terminal front-end for the taskboard API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/s1natex/taskboard/internal/client"
	"github.com/s1natex/taskboard/internal/tasks"
	"github.com/s1natex/taskboard/internal/view"
)

const (
	exitOK           = 0
	exitUserError    = 1
	exitBackendError = 3
)

const usage = `usage: taskview [global flags] <command> [flags] [args]

commands:
  list                         show tasks
  add    -title T [-desc D] [-priority P] [-due YYYY-MM-DD]
  edit   <id> [-title T] [-desc D] [-priority P] [-status S] [-due YYYY-MM-DD|none]
  toggle <id>                  flip pending/completed
  delete <id>

global flags:
  -server URL   API base url (default $TASKVIEW_SERVER or http://localhost:8080)
  -search S     case-insensitive title/description filter
  -priority P   all, high, medium or low
  -sort K       created, due or priority
  -debug        log requests and failures to stderr
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, http.DefaultClient))
}

func run(ctx context.Context, args []string, out, errOut io.Writer, hc *http.Client) int {
	fs := flag.NewFlagSet("taskview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	server := fs.String("server", defaultServer(), "")
	search := fs.String("search", "", "")
	priority := fs.String("priority", view.PriorityAll, "")
	sortBy := fs.String("sort", string(view.SortCreated), "")
	debug := fs.Bool("debug", false, "")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %v\n\n%s", err, usage)
		return exitUserError
	}

	level := slog.LevelError + 4 // silent
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	api, err := client.New(*server, client.WithHTTPClient(hc))
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUserError
	}
	v := view.New(api,
		view.WithLogger(logger),
		view.WithNotifier(view.WriterNotifier{W: errOut}),
	)

	sk := view.SortKey(*sortBy)
	if err := v.Dispatch(ctx, view.SetFilter{Search: search, Priority: priority, SortBy: &sk}); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUserError
	}

	rest := fs.Args()
	cmdName := "list"
	if len(rest) > 0 {
		cmdName, rest = rest[0], rest[1:]
	}

	if err := v.Load(ctx); err != nil {
		return exitBackendError
	}

	var cmd view.Command
	switch cmdName {
	case "list", "ls":
	case "add":
		cmd, err = parseAdd(rest)
	case "edit":
		cmd, err = parseEdit(v, rest)
	case "toggle", "done":
		var id string
		if id, err = resolveArg(v, rest); err == nil {
			cmd = view.ToggleTask{ID: id}
		}
	case "delete", "rm":
		var id string
		if id, err = resolveArg(v, rest); err == nil {
			cmd = view.DeleteTask{ID: id}
		}
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return exitOK
	default:
		err = fmt.Errorf("unknown command: %s", cmdName)
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitUserError
	}

	if cmd != nil {
		if err := v.Dispatch(ctx, cmd); err != nil {
			if errors.Is(err, view.ErrNotCached) {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitUserError
			}
			return exitBackendError
		}
	}

	if err := view.WriteText(out, v.Render()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitBackendError
	}
	return exitOK
}

func defaultServer() string {
	if s := strings.TrimSpace(os.Getenv("TASKVIEW_SERVER")); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func parseAdd(args []string) (view.Command, error) {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "")
	desc := fs.String("desc", "", "")
	priority := fs.String("priority", string(tasks.PriorityMedium), "")
	due := fs.String("due", "", "")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *title == "" && fs.NArg() > 0 {
		*title = strings.Join(fs.Args(), " ")
	}

	in := tasks.TaskInput{
		Title:       *title,
		Description: *desc,
		Priority:    tasks.Priority(*priority),
		Status:      tasks.StatusPending,
	}
	if err := setDue(&in, *due); err != nil {
		return nil, err
	}
	return view.CreateTask{Input: in}, nil
}

func parseEdit(v *view.View, args []string) (view.Command, error) {
	id, err := resolveArg(v, args)
	if err != nil {
		return nil, err
	}
	in, _ := v.EditForm(id)

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", in.Title, "")
	desc := fs.String("desc", in.Description, "")
	priority := fs.String("priority", string(in.Priority), "")
	status := fs.String("status", string(in.Status), "")
	due := fs.String("due", "", "")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	in.Title = *title
	in.Description = *desc
	in.Priority = tasks.Priority(*priority)
	in.Status = tasks.Status(*status)
	if *due == "none" {
		in.DueDate = nil
	} else if err := setDue(&in, *due); err != nil {
		return nil, err
	}
	return view.UpdateTask{ID: id, Input: in}, nil
}

// setDue leaves in.DueDate alone when s is blank.
func setDue(in *tasks.TaskInput, s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := tasks.ParseDate(s)
	if err != nil {
		return err
	}
	in.DueDate = &d
	return nil
}

func resolveArg(v *view.View, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("task id required")
	}
	return v.Resolve(args[0])
}
