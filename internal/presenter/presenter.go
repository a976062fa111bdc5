// Package presenter maps stored todos to their display representations.
package presenter

import (
	"strings"
	"time"
	"todoTracker/internal/models/todo"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is shown for an empty value in preview and export rows.
const Placeholder = "-"

// HumanDateLayout renders dates as "15 Sep, 2025".
const HumanDateLayout = "02 Jan, 2006"

// ExportHeadings are the column titles of the spreadsheet report.
var ExportHeadings = []string{"Title", "Assignee", "Due Date", "Time Tracked (Hours)", "Status", "Priority"}

func SplitAssignees(raw string) []string {
	return todo.SplitNames(raw)
}

// JoinAssignees trims every name and joins them with a comma.
func JoinAssignees(names []string) string {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		trimmed = append(trimmed, strings.TrimSpace(name))
	}
	return strings.Join(trimmed, ",")
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(todo.DateLayout)
}

func FormatDateHuman(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(HumanDateLayout)
}

// Humanize turns "in_progress" into "In Progress".
func Humanize(value string) string {
	// cases.Caser keeps state, so one per call.
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(strings.ReplaceAll(value, "_", " "))
}

// FormatEnumOrNull humanizes value, or returns nil when it is empty so the
// JSON field is null.
func FormatEnumOrNull(value string) *string {
	if value == "" {
		return nil
	}
	h := Humanize(value)
	return &h
}

// FormatEnumOrDash humanizes value, or returns Placeholder when it is empty.
func FormatEnumOrDash(value string) string {
	if value == "" {
		return Placeholder
	}
	return Humanize(value)
}

func OrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}

type ListItem struct {
	ID          int64    `json:"id"`
	Task        string   `json:"task"`
	Developer   []string `json:"developer"`
	Date        string   `json:"date"`
	TimeTracked int      `json:"time_tracked"`
	Status      *string  `json:"status"`
	StatusRaw   string   `json:"status_raw"`
	Priority    *string  `json:"priority"`
	Type        *string  `json:"type"`
	EstimatedSP *int     `json:"estimated_sp"`
	ActualSP    *int     `json:"actual_sp"`
}

func ToListItem(t *todo.Todo) ListItem {
	return ListItem{
		ID:          t.ID,
		Task:        t.Title,
		Developer:   SplitAssignees(t.Assignees),
		Date:        FormatDateHuman(t.DueDate),
		TimeTracked: t.TimeTracked,
		Status:      FormatEnumOrNull(string(t.Status)),
		StatusRaw:   string(t.Status),
		Priority:    FormatEnumOrNull(t.PriorityValue()),
		Type:        FormatEnumOrNull(t.TypeValue()),
		EstimatedSP: t.EstimatedSP,
		ActualSP:    t.ActualSP,
	}
}

func ToListItems(todos []*todo.Todo) []ListItem {
	items := make([]ListItem, 0, len(todos))
	for _, t := range todos {
		items = append(items, ToListItem(t))
	}
	return items
}

type PreviewRow struct {
	Title       string `json:"title"`
	Assignee    string `json:"assigne"`
	DueDate     string `json:"due_date"`
	TimeTracked int    `json:"time_tracked"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

func ToPreviewRow(t *todo.Todo) PreviewRow {
	return PreviewRow{
		Title:       t.Title,
		Assignee:    OrDash(t.Assignees),
		DueDate:     OrDash(FormatDate(t.DueDate)),
		TimeTracked: t.TimeTracked,
		Status:      FormatEnumOrDash(string(t.Status)),
		Priority:    FormatEnumOrDash(t.PriorityValue()),
	}
}

func ToPreviewRows(todos []*todo.Todo) []PreviewRow {
	rows := make([]PreviewRow, 0, len(todos))
	for _, t := range todos {
		rows = append(rows, ToPreviewRow(t))
	}
	return rows
}

// ToExportRows returns one spreadsheet row per todo, in ExportHeadings order.
func ToExportRows(todos []*todo.Todo) [][]any {
	rows := make([][]any, 0, len(todos))
	for _, t := range todos {
		p := ToPreviewRow(t)
		rows = append(rows, []any{p.Title, p.Assignee, p.DueDate, p.TimeTracked, p.Status, p.Priority})
	}
	return rows
}

func TotalTimeTracked(todos []*todo.Todo) int {
	total := 0
	for _, t := range todos {
		total += t.TimeTracked
	}
	return total
}
