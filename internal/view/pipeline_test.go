package view

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/s1natex/taskboard/internal/tasks"
)

var words = []string{"Report", "milk", "Deploy", "review", "TAXES", "garden", ""}

func randomTasks(rng *rand.Rand, n int) []tasks.Task {
	prios := []tasks.Priority{tasks.PriorityHigh, tasks.PriorityMedium, tasks.PriorityLow}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]tasks.Task, 0, n)
	for i := 0; i < n; i++ {
		t := tasks.Task{
			ID:          fmt.Sprintf("t%d", i),
			Title:       words[rng.IntN(len(words)-1)] + " " + words[rng.IntN(len(words))],
			Description: words[rng.IntN(len(words))],
			Priority:    prios[rng.IntN(len(prios))],
			Status:      tasks.StatusPending,
			CreatedAt:   base.Add(time.Duration(rng.IntN(10000)) * time.Minute),
		}
		if rng.IntN(3) > 0 {
			d := tasks.NewDate(2024, time.Month(1+rng.IntN(12)), 1+rng.IntN(28))
			t.DueDate = &d
		}
		out = append(out, t)
	}
	return out
}

func TestApply_FilterProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 50; round++ {
		list := randomTasks(rng, rng.IntN(40))
		search := []string{"", "re", "MILK", "x", "tax", "GaRd"}[rng.IntN(6)]
		prio := []string{PriorityAll, "high", "medium", "low"}[rng.IntN(4)]

		got := Apply(list, Filters{Search: search, Priority: prio, SortBy: SortCreated})
		needle := strings.ToLower(search)
		for _, task := range got {
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				t.Fatalf("task %+v does not contain %q", task, search)
			}
			if prio != PriorityAll && string(task.Priority) != prio {
				t.Fatalf("task %+v does not match priority %s", task, prio)
			}
		}

		// nothing matching is dropped
		want := 0
		for _, task := range list {
			if (strings.Contains(strings.ToLower(task.Title), needle) || strings.Contains(strings.ToLower(task.Description), needle)) &&
				(prio == PriorityAll || string(task.Priority) == prio) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("expected %d tasks, got %d", want, len(got))
		}
	}
}

func TestApply_SortProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for round := 0; round < 50; round++ {
		list := randomTasks(rng, rng.IntN(40))

		byPrio := Apply(list, Filters{Priority: PriorityAll, SortBy: SortPriority})
		for i := 1; i < len(byPrio); i++ {
			if byPrio[i-1].Priority.Rank() > byPrio[i].Priority.Rank() {
				t.Fatalf("priority order broken at %d", i)
			}
		}

		byCreated := Apply(list, Filters{Priority: PriorityAll, SortBy: SortCreated})
		for i := 1; i < len(byCreated); i++ {
			if byCreated[i-1].CreatedAt.Before(byCreated[i].CreatedAt) {
				t.Fatalf("created order broken at %d", i)
			}
		}

		byDue := Apply(list, Filters{Priority: PriorityAll, SortBy: SortDue})
		seenNil := false
		for i, task := range byDue {
			if task.DueDate == nil {
				seenNil = true
				continue
			}
			if seenNil {
				t.Fatalf("dated task after undated one at %d", i)
			}
			if i > 0 && byDue[i-1].DueDate.After(task.DueDate.Time) {
				t.Fatalf("due order broken at %d", i)
			}
		}
	}
}

func TestApply_DueKeepsUndatedStable(t *testing.T) {
	d := tasks.NewDate(2024, 2, 2)
	list := []tasks.Task{
		{ID: "1", Title: "n1", Priority: tasks.PriorityLow},
		{ID: "2", Title: "dated", Priority: tasks.PriorityLow, DueDate: &d},
		{ID: "3", Title: "n2", Priority: tasks.PriorityLow},
	}
	got := Apply(list, Filters{Priority: PriorityAll, SortBy: SortDue})
	if got[0].ID != "2" || got[1].ID != "1" || got[2].ID != "3" {
		t.Fatalf("unexpected order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	list := []tasks.Task{
		{ID: "low", Title: "a", Priority: tasks.PriorityLow},
		{ID: "high", Title: "b", Priority: tasks.PriorityHigh},
	}
	_ = Apply(list, Filters{Priority: PriorityAll, SortBy: SortPriority})
	if list[0].ID != "low" {
		t.Fatalf("input slice was reordered")
	}
}

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters("", "", "")
	if err != nil || f != DefaultFilters() {
		t.Fatalf("expected defaults, got %+v, %v", f, err)
	}
	if _, err := ParseFilters("", "urgent", ""); err == nil {
		t.Fatalf("expected error for bad priority")
	}
	if _, err := ParseFilters("", "", "title"); err == nil {
		t.Fatalf("expected error for bad sort")
	}
	f, err = ParseFilters("x", "low", "due")
	if err != nil || f.Priority != "low" || f.SortBy != SortDue || f.Search != "x" {
		t.Fatalf("unexpected filters %+v, %v", f, err)
	}
}
