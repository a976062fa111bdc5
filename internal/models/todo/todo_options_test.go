package todo_test

import (
	"testing"
	"time"
	"todoTracker/internal/models/todo"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

// TestApply_OnlySuppliedFieldsChange tests partial update semantics
func TestApply_OnlySuppliedFieldsChange(t *testing.T) {
	high := todo.PriorityHigh
	original := &todo.Todo{
		ID:          7,
		Title:       "Write docs",
		Assignees:   "Alice",
		DueDate:     time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC),
		TimeTracked: 3,
		Status:      todo.StatusOpen,
		Priority:    &high,
		EstimatedSP: ptr(5),
	}

	todo.Apply(original,
		todo.WithTitle(nil),
		todo.WithAssignees(ptr("Alice, Bob")),
		todo.WithStatus(ptr(todo.StatusInProgress)),
		todo.WithPriority(nil),
		todo.WithTimeTracked(ptr(0)),
		todo.WithActualSP(ptr(8)),
	)

	assert.Equal(t, "Write docs", original.Title)
	assert.Equal(t, "Alice, Bob", original.Assignees)
	assert.Equal(t, todo.StatusInProgress, original.Status)
	assert.Equal(t, todo.PriorityHigh, *original.Priority)
	assert.Equal(t, 0, original.TimeTracked)
	assert.Equal(t, 5, *original.EstimatedSP)
	assert.Equal(t, 8, *original.ActualSP)
	assert.Nil(t, original.Type)
}

func TestWithDueDate_DropsClock(t *testing.T) {
	due := time.Date(2025, 12, 31, 17, 45, 0, 0, time.UTC)
	item := &todo.Todo{}

	todo.Apply(item, todo.WithDueDate(&due))

	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), item.DueDate)
}

func TestEnums_IsValid(t *testing.T) {
	assert.True(t, todo.StatusStuck.IsValid())
	assert.False(t, todo.Status("done").IsValid())
	assert.True(t, todo.PriorityBestEffort.IsValid())
	assert.False(t, todo.Priority("urgent").IsValid())
	assert.True(t, todo.TypeBug.IsValid())
	assert.False(t, todo.Type("chore").IsValid())
}
