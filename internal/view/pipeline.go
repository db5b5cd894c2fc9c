// Package view holds the client-side Task View: a cache of the server's
// tasks, the commands that mutate it, and the filter/sort/render pipeline.
package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/s1natex/taskboard/internal/tasks"
)

const PriorityAll = "all"

type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
)

func (k SortKey) Valid() bool {
	return k == SortCreated || k == SortDue || k == SortPriority
}

type Filters struct {
	Search   string
	Priority string
	SortBy   SortKey
}

func DefaultFilters() Filters {
	return Filters{Priority: PriorityAll, SortBy: SortCreated}
}

// ParseFilters validates raw filter values. Empty values take defaults.
func ParseFilters(search, priority, sortBy string) (Filters, error) {
	f := DefaultFilters()
	f.Search = search
	if priority != "" {
		if priority != PriorityAll && !tasks.Priority(priority).Valid() {
			return Filters{}, fmt.Errorf("priority filter must be all, high, medium or low, got %q", priority)
		}
		f.Priority = priority
	}
	if sortBy != "" {
		if !SortKey(sortBy).Valid() {
			return Filters{}, fmt.Errorf("sort must be created, due or priority, got %q", sortBy)
		}
		f.SortBy = SortKey(sortBy)
	}
	return f, nil
}

// Apply filters and sorts list. list itself is left untouched.
func Apply(list []tasks.Task, f Filters) []tasks.Task {
	needle := strings.ToLower(f.Search)
	out := make([]tasks.Task, 0, len(list))
	for _, t := range list {
		if matches(t, needle, f.Priority) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, comparator(f.SortBy))
	return out
}

func matches(t tasks.Task, needle, priority string) bool {
	if priority != "" && priority != PriorityAll && string(t.Priority) != priority {
		return false
	}
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func comparator(key SortKey) func(a, b tasks.Task) int {
	switch key {
	case SortDue:
		return func(a, b tasks.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(b.DueDate.Time)
		}
	case SortPriority:
		return func(a, b tasks.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	default:
		// newest first
		return func(a, b tasks.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}
