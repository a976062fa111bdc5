package todo

import (
	"strings"
	"time"
)

// DefaultTitle is stored when a todo is created without a title.
const DefaultTitle = "New Task"

// DateLayout is the wire and storage layout of due dates.
const DateLayout = "2006-01-02"

type Todo struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Assignees   string    `json:"assignees" db:"assignees"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	TimeTracked int       `json:"time_tracked" db:"time_tracked"`
	Status      Status    `json:"status" db:"status"`
	Priority    *Priority `json:"priority" db:"priority"`
	Type        *Type     `json:"type" db:"type"`
	EstimatedSP *int      `json:"estimated_sp" db:"estimated_sp"`
	ActualSP    *int      `json:"actual_sp" db:"actual_sp"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Status string
type Priority string
type Type string

const (
	StatusPending    Status = "pending"
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusStuck      Status = "stuck"
)

const (
	PriorityLow        Priority = "low"
	PriorityMedium     Priority = "medium"
	PriorityHigh       Priority = "high"
	PriorityCritical   Priority = "critical"
	PriorityBestEffort Priority = "best_effort"
)

const (
	TypeFeatureEnhancements Type = "feature_enhancements"
	TypeOther               Type = "other"
	TypeBug                 Type = "bug"
)

// Statuses lists the canonical statuses in display order.
var Statuses = []Status{StatusPending, StatusOpen, StatusInProgress, StatusStuck, StatusCompleted}

// Priorities lists the canonical priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical, PriorityBestEffort}

var Types = []Type{TypeFeatureEnhancements, TypeOther, TypeBug}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (p Priority) IsValid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

func (t Type) IsValid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// PriorityValue returns the raw priority or an empty string.
func (t *Todo) PriorityValue() string {
	if t.Priority == nil {
		return ""
	}
	return string(*t.Priority)
}

func (t *Todo) TypeValue() string {
	if t.Type == nil {
		return ""
	}
	return string(*t.Type)
}

// Today returns the calendar date of now as a UTC midnight value.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// DateOf drops the clock part of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// SplitNames splits a comma-separated list, trimming every name and
// dropping empty ones.
func SplitNames(raw string) []string {
	names := []string{}
	if strings.TrimSpace(raw) == "" {
		return names
	}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}
