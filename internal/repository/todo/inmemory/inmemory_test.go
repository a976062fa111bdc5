package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/repository/todo/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTodoStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTodoStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func TestTodoStorage_CreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	first := &todo.Todo{Title: "First", DueDate: date(2025, 11, 15), Status: todo.StatusPending}
	second := &todo.Todo{Title: "Second", DueDate: date(2025, 11, 16), Status: todo.StatusPending}

	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	require.NoError(t, storage.Delete(ctx, second.ID))

	third := &todo.Todo{Title: "Third", DueDate: date(2025, 11, 17), Status: todo.StatusPending}
	require.NoError(t, storage.Create(ctx, third))
	assert.Equal(t, int64(3), third.ID)
}

// TestTodoStorage_ReturnsCopies checks that callers cannot mutate stored records
func TestTodoStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	item := &todo.Todo{Title: "Original", DueDate: date(2025, 11, 15), Status: todo.StatusOpen, Priority: ptr(todo.PriorityLow)}
	require.NoError(t, storage.Create(ctx, item))

	item.Title = "Changed outside"
	got, err := storage.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	*got.Priority = todo.PriorityCritical
	again, err := storage.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.PriorityLow, *again.Priority)
}

func TestTodoStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	item := &todo.Todo{Title: "Draft", DueDate: date(2025, 11, 15), Status: todo.StatusPending}
	require.NoError(t, storage.Create(ctx, item))

	item.Status = todo.StatusCompleted
	require.NoError(t, storage.Update(ctx, item))

	got, err := storage.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusCompleted, got.Status)

	err = storage.Update(ctx, &todo.Todo{ID: 404})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTodoStorage_GetAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	_, err := storage.GetByID(ctx, 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
	assert.ErrorIs(t, storage.Delete(ctx, 1), repo.ErrNotFound)
}

func TestTodoStorage_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	for _, item := range []*todo.Todo{
		{Title: "John", Assignees: "John", DueDate: date(2025, 12, 31), Status: todo.StatusPending, EstimatedSP: ptr(3)},
		{Title: "Jane", Assignees: "Jane", DueDate: date(2025, 11, 15), Status: todo.StatusOpen},
		{Title: "Bob", Assignees: "Bob", DueDate: date(2025, 12, 1), Status: todo.StatusPending, EstimatedSP: ptr(1)},
	} {
		require.NoError(t, storage.Create(ctx, item))
	}

	todos, err := storage.List(ctx, filter.Filter{AssigneesAnyOf: []string{"John", "Jane"}}, filter.ExportSort)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Jane", todos[0].Title)
	assert.Equal(t, "John", todos[1].Title)

	todos, err = storage.List(ctx, filter.Filter{}, filter.DefaultSort)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{todos[0].ID, todos[1].ID, todos[2].ID})

	todos, err = storage.List(ctx, filter.Filter{}, filter.ParseSort("estimated_sp", "desc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane", "John", "Bob"}, []string{todos[0].Title, todos[1].Title, todos[2].Title})
}

func TestTodoStorage_BulkDelete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	for i := 0; i < 3; i++ {
		require.NoError(t, storage.Create(ctx, &todo.Todo{Title: fmt.Sprintf("Todo %d", i), DueDate: date(2025, 11, 15), Status: todo.StatusPending}))
	}

	found, err := storage.ExistingIDs(ctx, []int64{3, 9, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, found)

	count, err := storage.DeleteMany(ctx, []int64{1, 3, 9})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	todos, err := storage.List(ctx, filter.Filter{}, filter.DefaultSort)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, int64(2), todos[0].ID)
}

func TestTodoStorage_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTodoStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := &todo.Todo{Title: fmt.Sprintf("Todo %d", i), DueDate: date(2025, 11, 15), Status: todo.StatusPending}
			assert.NoError(t, storage.Create(ctx, item))
		}(i)
	}
	wg.Wait()

	todos, err := storage.List(ctx, filter.Filter{}, filter.DefaultSort)
	require.NoError(t, err)
	assert.Len(t, todos, 50)
}
