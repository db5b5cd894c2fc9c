package tasks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database. It lives as long as the
// single pooled connection does.
const MemoryDSN = ":memory:"

type SQLiteRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db, now: time.Now}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

// ApplyMigrations ensures schema exists
func (r *SQLiteRepo) ApplyMigrations(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	due_date TEXT,
	created_at TEXT NOT NULL
);
	`)
	return err
}

const selectColumns = `id, title, description, priority, status, due_date, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (Task, error) {
	var (
		t       Task
		due     sql.NullString
		created string
	)
	if err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &due, &created); err != nil {
		return Task{}, err
	}
	if due.Valid {
		d, err := ParseDate(due.String)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = &d
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Task{}, err
	}
	t.CreatedAt = ts
	return t, nil
}

func dueValue(d *Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM tasks ORDER BY seq ASC`)
	if err != nil {
		observe("list", err)
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			observe("list", err)
			return nil, err
		}
		out = append(out, t)
	}
	observe("list", rows.Err())
	return out, rows.Err()
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	observe("get", err)
	return t, err
}

func (r *SQLiteRepo) Create(ctx context.Context, in TaskInput) (Task, error) {
	if err := in.Validate(false); err != nil {
		observe("create", err)
		return Task{}, err
	}
	in = in.normalized()

	t := Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatedAt:   r.now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Description, string(t.Priority), string(t.Status), dueValue(t.DueDate),
		t.CreatedAt.Format(time.RFC3339Nano))
	observe("create", err)
	if err != nil {
		return Task{}, err
	}
	r.updateGauge(ctx)
	return t, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, id string, in TaskInput) (Task, error) {
	if err := in.Validate(true); err != nil {
		observe("update", err)
		return Task{}, err
	}
	in = in.normalized()

	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, status = ?, due_date = ?
		WHERE id = ?
	`, in.Title, in.Description, string(in.Priority), string(in.Status), dueValue(in.DueDate), id)
	if err != nil {
		observe("update", err)
		return Task{}, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err == nil {
			err = ErrNotFound
		}
		observe("update", err)
		return Task{}, err
	}
	observe("update", nil)
	return r.Get(ctx, id)
}

func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		observe("delete", err)
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		err = ErrNotFound
	}
	observe("delete", err)
	if err != nil {
		return err
	}
	r.updateGauge(ctx)
	return nil
}

func (r *SQLiteRepo) updateGauge(ctx context.Context) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err == nil {
		storedTasks.Set(float64(n))
	}
}
