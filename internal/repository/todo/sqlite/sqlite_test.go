package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/migrations"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	storage, err := sqlite.Open(filepath.Join(t.TempDir(), "data", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	require.NoError(t, migrations.UpSQLite(storage.DB()))
	return storage
}

func create(t *testing.T, s *sqlite.Storage, item *todo.Todo) *todo.Todo {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), item))
	return item
}

func TestStorage_MigrationsAreIdempotent(t *testing.T) {
	storage := newStorage(t)

	assert.NoError(t, migrations.UpSQLite(storage.DB()))
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func TestStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	created := create(t, storage, &todo.Todo{
		Title:       "Release notes",
		Assignees:   "Alice, Bob",
		DueDate:     date(2025, 12, 31),
		TimeTracked: 6,
		Status:      todo.StatusInProgress,
		Type:        ptr(todo.TypeFeatureEnhancements),
		ActualSP:    ptr(2),
	})
	assert.Equal(t, int64(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Release notes", got.Title)
	assert.Equal(t, "Alice, Bob", got.Assignees)
	assert.Equal(t, date(2025, 12, 31), got.DueDate)
	assert.Equal(t, 6, got.TimeTracked)
	assert.Equal(t, todo.StatusInProgress, got.Status)
	assert.Nil(t, got.Priority)
	assert.Equal(t, todo.TypeFeatureEnhancements, *got.Type)
	assert.Nil(t, got.EstimatedSP)
	assert.Equal(t, 2, *got.ActualSP)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestStorage_GetByID_NotFound(t *testing.T) {
	storage := newStorage(t)

	_, err := storage.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	item := create(t, storage, &todo.Todo{Title: "Draft", DueDate: date(2025, 11, 15), Status: todo.StatusPending, Priority: ptr(todo.PriorityLow)})

	item.Title = "Final"
	item.Priority = nil
	item.EstimatedSP = ptr(8)
	require.NoError(t, storage.Update(ctx, item))

	got, err := storage.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Nil(t, got.Priority)
	assert.Equal(t, 8, *got.EstimatedSP)

	err = storage.Update(ctx, &todo.Todo{ID: 77, DueDate: date(2025, 1, 1), Status: todo.StatusOpen})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	create(t, storage, &todo.Todo{Title: "John task", Assignees: "John", DueDate: date(2025, 12, 31), TimeTracked: 3, Status: todo.StatusPending})
	create(t, storage, &todo.Todo{Title: "Jane task", Assignees: "Jane", DueDate: date(2025, 11, 15), TimeTracked: 1, Status: todo.StatusOpen, Priority: ptr(todo.PriorityHigh)})
	create(t, storage, &todo.Todo{Title: "Bob task", Assignees: "Bob", DueDate: date(2025, 12, 1), TimeTracked: 9, Status: todo.StatusPending})

	todos, err := storage.List(ctx, filter.Filter{AssigneesAnyOf: []string{"John", "Jane"}}, filter.ExportSort)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Jane task", todos[0].Title)
	assert.Equal(t, "John task", todos[1].Title)

	todos, err = storage.List(ctx, filter.Filter{
		DueDateBetween: &filter.DateRange{Start: date(2025, 12, 1), End: date(2025, 12, 31)},
		PriorityIn:     []string{"high"},
	}, filter.DefaultSort)
	require.NoError(t, err)
	assert.Empty(t, todos)

	todos, err = storage.List(ctx, filter.Filter{TitleContains: "TASK"}, filter.ParseSort("priority", "asc"))
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "Jane task", todos[0].Title)
	assert.Equal(t, "John task", todos[1].Title)
	assert.Equal(t, "Bob task", todos[2].Title)
}

func TestStorage_List_UnicodeCaseFolding(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	create(t, storage, &todo.Todo{Title: "Écrire la doc", Assignees: "Élodie, Ömer", DueDate: date(2025, 12, 1), Status: todo.StatusPending})
	create(t, storage, &todo.Todo{Title: "Other", Assignees: "Bob", DueDate: date(2025, 12, 2), Status: todo.StatusPending})

	tests := []struct {
		name string
		f    filter.Filter
	}{
		{name: "assignee lower", f: filter.Filter{AssigneesAnyOf: []string{"élodie"}}},
		{name: "assignee upper", f: filter.Filter{AssigneesAnyOf: []string{"ÖMER"}}},
		{name: "title", f: filter.Filter{TitleContains: "écrire"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := storage.List(ctx, tt.f, filter.DefaultSort)
			require.NoError(t, err)
			require.Len(t, todos, 1)
			assert.Equal(t, "Écrire la doc", todos[0].Title)

			// the in-memory predicate agrees with the store
			assert.True(t, tt.f.Match(todos[0]))
		})
	}
}

func TestStorage_DeleteAndBulk(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	a := create(t, storage, &todo.Todo{Title: "A", DueDate: date(2025, 11, 15), Status: todo.StatusPending})
	b := create(t, storage, &todo.Todo{Title: "B", DueDate: date(2025, 11, 15), Status: todo.StatusPending})
	c := create(t, storage, &todo.Todo{Title: "C", DueDate: date(2025, 11, 15), Status: todo.StatusPending})

	require.NoError(t, storage.Delete(ctx, a.ID))
	assert.ErrorIs(t, storage.Delete(ctx, a.ID), repo.ErrNotFound)

	found, err := storage.ExistingIDs(ctx, []int64{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, found)

	count, err := storage.DeleteMany(ctx, []int64{b.ID, c.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	d := create(t, storage, &todo.Todo{Title: "D", DueDate: date(2025, 11, 15), Status: todo.StatusPending})
	assert.Greater(t, d.ID, c.ID)
}
