package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestInMemoryRepo_CreateAssignsIdentity(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()
	before := time.Now().UTC()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		task, err := repo.Create(ctx, TaskInput{Title: fmt.Sprintf("t%d", i), Priority: PriorityLow})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if task.ID == "" || seen[task.ID] {
			t.Fatalf("expected fresh non-empty id, got %q", task.ID)
		}
		seen[task.ID] = true
		if task.CreatedAt.Before(before) {
			t.Fatalf("createdAt %v earlier than request time %v", task.CreatedAt, before)
		}
		if task.Status != StatusPending {
			t.Fatalf("expected default status pending, got %q", task.Status)
		}
	}
}

func TestInMemoryRepo_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := repo.Create(ctx, TaskInput{Title: title, Priority: PriorityMedium}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Title != "a" || list[1].Title != "b" || list[2].Title != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestInMemoryRepo_CreateRejectsInvalid(t *testing.T) {
	repo := NewInMemoryRepo()

	_, err := repo.Create(context.Background(), TaskInput{Title: "  ", Priority: "urgent"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("expected title and priority errors, got %+v", vErr.Fields)
	}
	list, _ := repo.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("invalid task must not be stored")
	}
}

func TestInMemoryRepo_UpdatePreservesIdentity(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewInMemoryRepo(
		WithClock(func() time.Time { return created }),
		WithIDGenerator(func() string { return "fixed-id" }),
	)
	ctx := context.Background()

	orig, err := repo.Create(ctx, TaskInput{Title: "write report", Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	due := NewDate(2024, 4, 1)
	got, err := repo.Update(ctx, orig.ID, TaskInput{
		Title:       "write final report",
		Description: "q1",
		Priority:    PriorityLow,
		Status:      StatusCompleted,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != "fixed-id" || !got.CreatedAt.Equal(created) {
		t.Fatalf("identity changed: %+v", got)
	}
	if got.Title != "write final report" || got.Status != StatusCompleted || got.DueDate == nil || got.DueDate.String() != "2024-04-01" {
		t.Fatalf("fields not replaced: %+v", got)
	}

	stored, err := repo.Get(ctx, orig.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != got.Title {
		t.Fatalf("stored record differs from returned: %+v", stored)
	}
}

func TestInMemoryRepo_UpdateRequiresStatus(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()
	task, _ := repo.Create(ctx, TaskInput{Title: "x", Priority: PriorityLow})

	_, err := repo.Update(ctx, task.ID, TaskInput{Title: "x", Priority: PriorityLow})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestInMemoryRepo_UnknownID(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()
	kept, _ := repo.Create(ctx, TaskInput{Title: "kept", Priority: PriorityLow})

	if _, err := repo.Update(ctx, "missing", TaskInput{Title: "x", Priority: PriorityLow, Status: StatusPending}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].ID != kept.ID {
		t.Fatalf("collection changed: %+v", list)
	}
}

func TestInMemoryRepo_Delete(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()
	a, _ := repo.Create(ctx, TaskInput{Title: "a", Priority: PriorityLow})
	b, _ := repo.Create(ctx, TaskInput{Title: "b", Priority: PriorityLow})

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only b, got %+v", list)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryRepo_ListReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepo()
	ctx := context.Background()
	_, _ = repo.Create(ctx, TaskInput{Title: "a", Priority: PriorityLow})

	list, _ := repo.List(ctx)
	list[0].Title = "mutated"

	again, _ := repo.List(ctx)
	if again[0].Title != "a" {
		t.Fatalf("List must not expose internal storage")
	}
}
