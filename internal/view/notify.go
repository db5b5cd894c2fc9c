package view

import (
	"fmt"
	"io"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a message to the user.
type Notifier interface {
	Notify(level Level, msg string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}

// WriterNotifier prints each notification as a line on W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(level Level, msg string) {
	fmt.Fprintf(n.W, "[%s] %s\n", level, msg)
}

// Notification is a recorded notification.
type Notification struct {
	Level   Level
	Message string
}

// RecordingNotifier keeps notifications in memory.
type RecordingNotifier struct {
	mu  sync.Mutex
	all []Notification
}

func (r *RecordingNotifier) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, Notification{Level: level, Message: msg})
}

func (r *RecordingNotifier) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}
