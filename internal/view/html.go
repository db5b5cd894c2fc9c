package view

import (
	"html/template"
	"io"
	"strings"
)

const boardSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Task board</title>
</head>
<body>
<form class="filters" method="get" action="/">
  <input type="search" name="search" value="{{.Filters.Search}}" placeholder="Search tasks">
  <select name="priority">
  {{- range $p := priorityOptions}}
    <option value="{{$p}}"{{if eq $p $.Filters.Priority}} selected{{end}}>{{$p}}</option>
  {{- end}}
  </select>
  <select name="sortBy">
  {{- range $s := sortOptions}}
    <option value="{{$s}}"{{if eq $s $.Filters.SortBy}} selected{{end}}>{{$s}}</option>
  {{- end}}
  </select>
  <button type="submit">Apply</button>
</form>
<div id="tasks-list">
{{- if not .Rows}}
  <p class="no-tasks">{{.Placeholder}}</p>
{{- end}}
{{- range .Rows}}
  <div class="{{.Classes}}" data-id="{{.ID}}">
    <div class="task-header">
      <h3 class="task-title">{{.Title}}</h3>
      <div class="task-actions">
        <button class="complete-btn" data-id="{{.ID}}">{{.ToggleLabel}}</button>
        <button class="edit-btn" data-id="{{.ID}}">Edit</button>
        <button class="delete-btn" data-id="{{.ID}}">Delete</button>
      </div>
    </div>
    <p class="task-description">{{.Description}}</p>
    <div class="task-meta">
      <span>Due: {{.Due}}</span>
      <span class="task-status status-{{lower .Status}}">{{.Status}}</span>
      <span>Created: {{.Created}}</span>
    </div>
  </div>
{{- end}}
</div>
</body>
</html>
`

var boardTemplate = template.Must(template.New("board").Funcs(template.FuncMap{
	"lower":           strings.ToLower,
	"priorityOptions": func() []string { return []string{PriorityAll, "high", "medium", "low"} },
	"sortOptions":     func() []string { return []string{string(SortCreated), string(SortDue), string(SortPriority)} },
}).Parse(boardSource))

// WriteHTML renders p as a standalone HTML board. Task text is escaped.
func WriteHTML(w io.Writer, p Page) error {
	return boardTemplate.Execute(w, p)
}
