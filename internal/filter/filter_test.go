package filter_test

import (
	"testing"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixtures() []*todo.Todo {
	return []*todo.Todo{
		{ID: 1, Title: "Login page", Assignees: "John", DueDate: date(2025, 11, 15), TimeTracked: 4, Status: todo.StatusPending, Priority: ptr(todo.PriorityHigh)},
		{ID: 2, Title: "Logout flow", Assignees: "Jane, Bob", DueDate: date(2025, 12, 1), TimeTracked: 2, Status: todo.StatusOpen, Priority: ptr(todo.PriorityLow)},
		{ID: 3, Title: "Fix 100% CPU", Assignees: "Bob", DueDate: date(2025, 12, 31), TimeTracked: 0, Status: todo.StatusCompleted},
		{ID: 4, Title: "Dashboard", Assignees: "", DueDate: date(2026, 1, 10), TimeTracked: 9, Status: todo.StatusPending, Priority: ptr(todo.PriorityCritical)},
	}
}

func matchIDs(f filter.Filter, todos []*todo.Todo) []int64 {
	ids := []int64{}
	for _, t := range todos {
		if f.Match(t) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func TestMatch_AssigneesAnyOf(t *testing.T) {
	todos := []*todo.Todo{
		{ID: 1, Assignees: "John"},
		{ID: 2, Assignees: "Jane"},
		{ID: 3, Assignees: "Bob"},
	}

	f := filter.Filter{AssigneesAnyOf: []string{"John", " Jane "}}

	assert.Equal(t, []int64{1, 2}, matchIDs(f, todos))
}

func TestMatch_Criteria(t *testing.T) {
	tests := []struct {
		name     string
		filter   filter.Filter
		expected []int64
	}{
		{
			name:     "empty filter",
			filter:   filter.Filter{},
			expected: []int64{1, 2, 3, 4},
		},
		{
			name:     "title case insensitive",
			filter:   filter.Filter{TitleContains: "LOG"},
			expected: []int64{1, 2},
		},
		{
			name:     "title with percent sign",
			filter:   filter.Filter{TitleContains: "100%"},
			expected: []int64{3},
		},
		{
			name:     "assignee substring",
			filter:   filter.Filter{AssigneesAnyOf: []string{"bob"}},
			expected: []int64{2, 3},
		},
		{
			name:     "blank assignee names ignored",
			filter:   filter.Filter{AssigneesAnyOf: []string{" ", ""}},
			expected: []int64{1, 2, 3, 4},
		},
		{
			name:     "due date inclusive",
			filter:   filter.Filter{DueDateBetween: &filter.DateRange{Start: date(2025, 12, 1), End: date(2025, 12, 31)}},
			expected: []int64{2, 3},
		},
		{
			name:     "time tracked inclusive",
			filter:   filter.Filter{TimeTrackedBetween: &filter.IntRange{Min: 0, Max: 2}},
			expected: []int64{2, 3},
		},
		{
			name:     "status in",
			filter:   filter.Filter{StatusIn: []string{"pending", "completed"}},
			expected: []int64{1, 3, 4},
		},
		{
			name:     "priority in skips null priority",
			filter:   filter.Filter{PriorityIn: []string{"low", "critical"}},
			expected: []int64{2, 4},
		},
		{
			name: "criteria combined with AND",
			filter: filter.Filter{
				StatusIn:           []string{"pending"},
				TimeTrackedBetween: &filter.IntRange{Min: 5, Max: 10},
			},
			expected: []int64{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, matchIDs(tt.filter, fixtures()))
		})
	}
}

// TestMatch_CombinedIsSubsetOfEach checks that adding criteria never widens the result
func TestMatch_CombinedIsSubsetOfEach(t *testing.T) {
	singles := []filter.Filter{
		{TitleContains: "o"},
		{AssigneesAnyOf: []string{"Bob", "John"}},
		{DueDateBetween: &filter.DateRange{Start: date(2025, 11, 1), End: date(2025, 12, 31)}},
		{StatusIn: []string{"pending", "open"}},
	}
	combined := filter.Filter{
		TitleContains:  "o",
		AssigneesAnyOf: []string{"Bob", "John"},
		DueDateBetween: &filter.DateRange{Start: date(2025, 11, 1), End: date(2025, 12, 31)},
		StatusIn:       []string{"pending", "open"},
	}

	todos := fixtures()
	all := matchIDs(filter.Filter{}, todos)
	got := matchIDs(combined, todos)

	assert.Equal(t, []int64{1, 2}, got)
	for _, single := range singles {
		one := matchIDs(single, todos)
		assert.Subset(t, all, one)
		assert.Subset(t, one, got)
		assert.LessOrEqual(t, len(got), len(one))
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, filter.Filter{}.IsEmpty())
	assert.True(t, filter.Filter{AssigneesAnyOf: []string{" "}}.IsEmpty())
	assert.False(t, filter.Filter{StatusIn: []string{"open"}}.IsEmpty())
}

func TestApply_Postgres(t *testing.T) {
	f := filter.Filter{
		TitleContains:      "a_b",
		AssigneesAnyOf:     []string{"John", "Jane"},
		DueDateBetween:     &filter.DateRange{Start: date(2025, 11, 1), End: date(2025, 11, 30)},
		TimeTrackedBetween: &filter.IntRange{Min: 1, Max: 8},
		StatusIn:           []string{"open", "stuck"},
		PriorityIn:         []string{"high"},
	}

	query, args, err := filter.Apply(sq.Select("id").From("todo_lists"), f, filter.Postgres).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM todo_lists WHERE COALESCE(title, '') ILIKE $1 ESCAPE '\\' "+
			"AND (COALESCE(assignees, '') ILIKE $2 ESCAPE '\\' OR COALESCE(assignees, '') ILIKE $3 ESCAPE '\\') "+
			"AND due_date BETWEEN $4 AND $5 "+
			"AND COALESCE(time_tracked, 0) BETWEEN $6 AND $7 "+
			"AND status IN ($8,$9) "+
			"AND priority IN ($10)",
		query)
	assert.Equal(t, []any{
		`%a\_b%`, "%John%", "%Jane%",
		date(2025, 11, 1), date(2025, 11, 30),
		1, 8,
		"open", "stuck", "high",
	}, args)
}

func TestApply_SQLite(t *testing.T) {
	f := filter.Filter{
		TitleContains:  "Report",
		DueDateBetween: &filter.DateRange{Start: date(2025, 11, 1), End: date(2025, 11, 30)},
	}

	query, args, err := filter.Apply(sq.Select("id").From("todo_lists"), f, filter.SQLite).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM todo_lists WHERE fold_lower(COALESCE(title, '')) LIKE ? ESCAPE '\\' AND due_date BETWEEN ? AND ?",
		query)
	assert.Equal(t, []any{"%report%", "2025-11-01", "2025-11-30"}, args)
}

func TestApply_EmptyFilterAddsNothing(t *testing.T) {
	query, args, err := filter.Apply(sq.Select("id").From("todo_lists"), filter.Filter{}, filter.Postgres).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM todo_lists", query)
	assert.Empty(t, args)
}
