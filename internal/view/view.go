package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/s1natex/taskboard/internal/tasks"
)

// API is the subset of the REST client the view depends on.
type API interface {
	List(ctx context.Context) ([]tasks.Task, error)
	Create(ctx context.Context, in tasks.TaskInput) (tasks.Task, error)
	Update(ctx context.Context, id string, in tasks.TaskInput) (tasks.Task, error)
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotCached is returned when a command names a task the view has not loaded.
	ErrNotCached = errors.New("task not in local cache")
	// ErrAmbiguousID is returned when an id prefix matches more than one task.
	ErrAmbiguousID = errors.New("ambiguous task id")
)

// View owns one session's cache and filters. It is not safe for concurrent
// use; commands are applied one at a time.
type View struct {
	api      API
	logger   *slog.Logger
	notifier Notifier
	loc      *time.Location

	tasks   []tasks.Task
	filters Filters
}

type Option func(*View)

func WithLogger(l *slog.Logger) Option {
	return func(v *View) { v.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(v *View) { v.notifier = n }
}

// WithLocation sets the zone creation dates are shown in.
func WithLocation(loc *time.Location) Option {
	return func(v *View) { v.loc = loc }
}

func New(api API, opts ...Option) *View {
	v := &View{
		api:      api,
		logger:   slog.Default(),
		notifier: NopNotifier{},
		loc:      time.Local,
		filters:  DefaultFilters(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load replaces the cache with the server's collection.
func (v *View) Load(ctx context.Context) error {
	list, err := v.api.List(ctx)
	if err != nil {
		return v.fail("load", "Failed to load tasks", err)
	}
	v.tasks = append([]tasks.Task(nil), list...)
	return nil
}

// Tasks returns a copy of the cache in server order.
func (v *View) Tasks() []tasks.Task {
	return append([]tasks.Task(nil), v.tasks...)
}

func (v *View) Filters() Filters { return v.filters }

// Visible is the filtered and sorted cache.
func (v *View) Visible() []tasks.Task {
	return Apply(v.tasks, v.filters)
}

// Render runs the full pipeline over the cache.
func (v *View) Render() Page {
	return Render(v.tasks, v.filters, v.loc)
}

// EditForm returns the cached task's fields for pre-filling an edit.
func (v *View) EditForm(id string) (tasks.TaskInput, bool) {
	i := v.indexOf(id)
	if i < 0 {
		return tasks.TaskInput{}, false
	}
	return v.tasks[i].Input(), true
}

// Resolve expands a unique id prefix to a cached task id.
func (v *View) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotCached
	}
	var found string
	for _, t := range v.tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if found != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
			}
			found = t.ID
		}
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s", ErrNotCached, prefix)
	}
	return found, nil
}

func (v *View) indexOf(id string) int {
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *View) replace(t tasks.Task) {
	if i := v.indexOf(t.ID); i >= 0 {
		v.tasks[i] = t
	}
}

func (v *View) remove(id string) {
	if i := v.indexOf(id); i >= 0 {
		v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
	}
}

// fail logs err, shows msg to the user and returns err. The cache is not touched.
func (v *View) fail(op, msg string, err error) error {
	v.logger.Error("task_view_error", slog.String("op", op), slog.String("error", err.Error()))
	v.notifier.Notify(LevelError, msg)
	return err
}
