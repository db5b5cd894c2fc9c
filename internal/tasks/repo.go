package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("task not found")

type Repository interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Create(ctx context.Context, in TaskInput) (Task, error)
	Update(ctx context.Context, id string, in TaskInput) (Task, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepo keeps tasks in insertion order for the lifetime of the process.
type InMemoryRepo struct {
	mu    sync.Mutex
	store []Task
	now   func() time.Time
	newID func() string
}

type InMemoryOption func(*InMemoryRepo)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) InMemoryOption {
	return func(r *InMemoryRepo) { r.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(gen func() string) InMemoryOption {
	return func(r *InMemoryRepo) { r.newID = gen }
}

func NewInMemoryRepo(opts ...InMemoryOption) *InMemoryRepo {
	r := &InMemoryRepo{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *InMemoryRepo) List(_ context.Context) ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Task, len(r.store))
	copy(out, r.store)
	observe("list", nil)
	return out, nil
}

func (r *InMemoryRepo) Get(_ context.Context, id string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		observe("get", ErrNotFound)
		return Task{}, ErrNotFound
	}
	observe("get", nil)
	return r.store[i], nil
}

func (r *InMemoryRepo) Create(_ context.Context, in TaskInput) (Task, error) {
	if err := in.Validate(false); err != nil {
		observe("create", err)
		return Task{}, err
	}
	in = in.normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	t := Task{
		ID:          r.newID(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatedAt:   r.now().UTC(),
	}
	r.store = append(r.store, t)
	observe("create", nil)
	storedTasks.Set(float64(len(r.store)))
	return t, nil
}

func (r *InMemoryRepo) Update(_ context.Context, id string, in TaskInput) (Task, error) {
	if err := in.Validate(true); err != nil {
		observe("update", err)
		return Task{}, err
	}
	in = in.normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		observe("update", ErrNotFound)
		return Task{}, ErrNotFound
	}
	t := r.store[i]
	t.Title = in.Title
	t.Description = in.Description
	t.Priority = in.Priority
	t.Status = in.Status
	t.DueDate = in.DueDate
	r.store[i] = t
	observe("update", nil)
	return t, nil
}

func (r *InMemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		observe("delete", ErrNotFound)
		return ErrNotFound
	}
	r.store = append(r.store[:i], r.store[i+1:]...)
	observe("delete", nil)
	storedTasks.Set(float64(len(r.store)))
	return nil
}

// indexOf must be called with r.mu held.
func (r *InMemoryRepo) indexOf(id string) int {
	for i := range r.store {
		if r.store[i].ID == id {
			return i
		}
	}
	return -1
}
