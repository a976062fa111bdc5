package filter

import (
	"cmp"
	"strings"
	"todoTracker/internal/models/todo"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortableFields is the allow-list of listing sort columns.
var SortableFields = []string{"id", "title", "due_date", "status", "priority", "type", "estimated_sp", "actual_sp"}

// DefaultSort orders listings newest first.
var DefaultSort = Sort{Field: "id", Direction: Desc}

// ExportSort orders report rows by due date.
var ExportSort = Sort{Field: "due_date", Direction: Asc}

type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort keeps the caller's field and direction when they are allowed,
// falling back to DefaultSort for each part independently.
func ParseSort(field, direction string) Sort {
	s := DefaultSort

	if contains(SortableFields, field) {
		s.Field = field
	}

	switch Direction(strings.ToLower(direction)) {
	case Asc:
		s.Direction = Asc
	case Desc:
		s.Direction = Desc
	}

	return s
}

// OrderBy renders the ORDER BY terms. NULLs sort last ascending and first
// descending on every store; ties fall back to id ascending.
func (s Sort) OrderBy() []string {
	if s.Field == "id" {
		return []string{"id " + s.sqlDirection()}
	}

	nulls := "NULLS LAST"
	if s.Direction == Desc {
		nulls = "NULLS FIRST"
	}
	return []string{s.Field + " " + s.sqlDirection() + " " + nulls, "id ASC"}
}

func (s Sort) sqlDirection() string {
	if s.Direction == Desc {
		return "DESC"
	}
	return "ASC"
}

// Less orders a before b the same way OrderBy does in SQL.
func (s Sort) Less(a, b *todo.Todo) bool {
	c := s.compare(a, b)
	if c == 0 {
		return a.ID < b.ID
	}
	if s.Direction == Desc {
		return c > 0
	}
	return c < 0
}

func (s Sort) compare(a, b *todo.Todo) int {
	switch s.Field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "due_date":
		return a.DueDate.Compare(b.DueDate)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "priority":
		return compareNullable(a.Priority, b.Priority, func(x, y todo.Priority) int {
			return strings.Compare(string(x), string(y))
		})
	case "type":
		return compareNullable(a.Type, b.Type, func(x, y todo.Type) int {
			return strings.Compare(string(x), string(y))
		})
	case "estimated_sp":
		return compareNullable(a.EstimatedSP, b.EstimatedSP, cmp.Compare[int])
	case "actual_sp":
		return compareNullable(a.ActualSP, b.ActualSP, cmp.Compare[int])
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// compareNullable treats nil as greater than any value.
func compareNullable[T any](a, b *T, cmp func(T, T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp(*a, *b)
	}
}
