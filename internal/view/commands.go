package view

import (
	"context"
	"fmt"

	"github.com/s1natex/taskboard/internal/tasks"
)

// Command is a user action consumed by View.Dispatch.
type Command interface {
	Name() string
}

type CreateTask struct {
	Input tasks.TaskInput
}

// UpdateTask sends Input as the full replacement for task ID.
type UpdateTask struct {
	ID    string
	Input tasks.TaskInput
}

type DeleteTask struct {
	ID string
}

type ToggleTask struct {
	ID string
}

// SetFilter changes the filters that are non-nil.
type SetFilter struct {
	Search   *string
	Priority *string
	SortBy   *SortKey
}

func (CreateTask) Name() string { return "create-task" }
func (UpdateTask) Name() string { return "update-task" }
func (DeleteTask) Name() string { return "delete-task" }
func (ToggleTask) Name() string { return "toggle-task" }
func (SetFilter) Name() string  { return "set-filter" }

// Dispatch applies cmd. Mutations go through the API and the cache is patched
// only from a successful response.
func (v *View) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case CreateTask:
		return v.create(ctx, c)
	case UpdateTask:
		return v.update(ctx, c)
	case DeleteTask:
		return v.delete(ctx, c)
	case ToggleTask:
		return v.toggle(ctx, c)
	case SetFilter:
		return v.setFilter(c)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

func (v *View) create(ctx context.Context, c CreateTask) error {
	in := c.Input
	if in.Status == "" {
		in.Status = tasks.StatusPending
	}
	created, err := v.api.Create(ctx, in)
	if err != nil {
		return v.fail(c.Name(), "Failed to add task", err)
	}
	v.tasks = append(v.tasks, created)
	v.notifier.Notify(LevelSuccess, "Task added successfully")
	return nil
}

func (v *View) update(ctx context.Context, c UpdateTask) error {
	if v.indexOf(c.ID) < 0 {
		return fmt.Errorf("%w: %s", ErrNotCached, c.ID)
	}
	updated, err := v.api.Update(ctx, c.ID, c.Input)
	if err != nil {
		return v.fail(c.Name(), "Failed to update task", err)
	}
	v.replace(updated)
	v.notifier.Notify(LevelSuccess, "Task updated successfully")
	return nil
}

func (v *View) delete(ctx context.Context, c DeleteTask) error {
	if err := v.api.Delete(ctx, c.ID); err != nil {
		return v.fail(c.Name(), "Failed to delete task", err)
	}
	v.remove(c.ID)
	v.notifier.Notify(LevelSuccess, "Task deleted successfully")
	return nil
}

func (v *View) toggle(ctx context.Context, c ToggleTask) error {
	i := v.indexOf(c.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotCached, c.ID)
	}
	in := v.tasks[i].Input()
	in.Status = in.Status.Toggle()

	updated, err := v.api.Update(ctx, c.ID, in)
	if err != nil {
		return v.fail(c.Name(), "Failed to update task status", err)
	}
	v.replace(updated)
	v.notifier.Notify(LevelSuccess, "Task marked as "+string(in.Status))
	return nil
}

func (v *View) setFilter(c SetFilter) error {
	next := v.filters
	if c.Search != nil {
		next.Search = *c.Search
	}
	if c.Priority != nil {
		next.Priority = *c.Priority
	}
	if c.SortBy != nil {
		next.SortBy = *c.SortBy
	}
	parsed, err := ParseFilters(next.Search, next.Priority, string(next.SortBy))
	if err != nil {
		return err
	}
	v.filters = parsed
	return nil
}
