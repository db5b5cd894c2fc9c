package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/s1natex/taskboard/internal/tasks"
)

const (
	EmptyPlaceholder = "No tasks found. Add a new task or change filters."
	NoDueDate        = "No due date"

	dateDisplay = "Jan 2, 2006"
)

// Row is one rendered task.
type Row struct {
	ID          string
	Title       string
	Description string
	Priority    string
	Due         string
	Status      string
	Created     string
	ToggleLabel string
	Classes     string
	Completed   bool
}

// Page is the rendered result of the pipeline. Placeholder is set only when
// Rows is empty.
type Page struct {
	Filters     Filters
	Rows        []Row
	Placeholder string
}

// Render runs the pipeline and formats dates in loc.
func Render(list []tasks.Task, f Filters, loc *time.Location) Page {
	if loc == nil {
		loc = time.UTC
	}
	visible := Apply(list, f)
	p := Page{Filters: f}
	if len(visible) == 0 {
		p.Placeholder = EmptyPlaceholder
		return p
	}
	p.Rows = make([]Row, 0, len(visible))
	for _, t := range visible {
		p.Rows = append(p.Rows, renderRow(t, loc))
	}
	return p
}

func renderRow(t tasks.Task, loc *time.Location) Row {
	completed := t.Status == tasks.StatusCompleted
	due := NoDueDate
	if t.DueDate != nil {
		// calendar day, no zone conversion
		due = t.DueDate.Format(dateDisplay)
	}
	toggle := "Complete"
	classes := "task-item " + string(t.Priority) + "-priority"
	if completed {
		toggle = "Undo"
		classes += " completed"
	}
	return Row{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Due:         due,
		Status:      capitalize(string(t.Status)),
		Created:     t.CreatedAt.In(loc).Format(dateDisplay),
		ToggleLabel: toggle,
		Classes:     classes,
		Completed:   completed,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// WriteText renders p as an aligned table.
func WriteText(w io.Writer, p Page) error {
	if len(p.Rows) == 0 {
		_, err := fmt.Fprintln(w, p.Placeholder)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tDUE\tSTATUS\tCREATED\tACTION")
	for _, r := range p.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(r.ID), oneLine(r.Title), r.Priority, r.Due, r.Status, r.Created, r.ToggleLabel)
		if d := oneLine(r.Description); d != "" {
			fmt.Fprintf(tw, "\t  %s\t\t\t\t\t\n", d)
		}
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
