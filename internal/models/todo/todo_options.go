package todo

import (
	"time"
)

// Option changes one field of a stored todo during an update.
// A nil Option means the field was not supplied and keeps its value.
type Option func(*Todo)

func WithTitle(title *string) Option {
	if title == nil {
		return nil
	}
	return func(t *Todo) {
		t.Title = *title
	}
}

func WithAssignees(assignees *string) Option {
	if assignees == nil {
		return nil
	}
	return func(t *Todo) {
		t.Assignees = *assignees
	}
}

func WithDueDate(dueDate *time.Time) Option {
	if dueDate == nil || dueDate.IsZero() {
		return nil
	}
	return func(t *Todo) {
		t.DueDate = DateOf(*dueDate)
	}
}

func WithTimeTracked(timeTracked *int) Option {
	if timeTracked == nil {
		return nil
	}
	return func(t *Todo) {
		t.TimeTracked = *timeTracked
	}
}

func WithStatus(status *Status) Option {
	if status == nil || *status == "" {
		return nil
	}
	return func(t *Todo) {
		t.Status = *status
	}
}

func WithPriority(priority *Priority) Option {
	if priority == nil || *priority == "" {
		return nil
	}
	return func(t *Todo) {
		value := *priority
		t.Priority = &value
	}
}

func WithType(kind *Type) Option {
	if kind == nil || *kind == "" {
		return nil
	}
	return func(t *Todo) {
		value := *kind
		t.Type = &value
	}
}

func WithEstimatedSP(points *int) Option {
	if points == nil {
		return nil
	}
	return func(t *Todo) {
		value := *points
		t.EstimatedSP = &value
	}
}

func WithActualSP(points *int) Option {
	if points == nil {
		return nil
	}
	return func(t *Todo) {
		value := *points
		t.ActualSP = &value
	}
}

// Apply runs every non-nil option against t.
func Apply(t *Todo, options ...Option) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
