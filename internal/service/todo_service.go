package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"todoTracker/internal/aggregate"
	"todoTracker/internal/filter"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	rep "todoTracker/internal/repository"

	"go.uber.org/zap"
)

const resourceTodo = "todo list"

type TodoService struct {
	repo     TodoRepository
	RepoType RepoType
	now      func() time.Time
}

func NewTodoService(repo TodoRepository, repoType RepoType) *TodoService {
	return &TodoService{
		repo:     repo,
		RepoType: repoType,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for creation defaults.
func (s *TodoService) WithClock(now func() time.Time) *TodoService {
	s.now = now
	return s
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check %s: %w", s.RepoType, err)
	}
	return nil
}

// CreateTodo fills the creation defaults and stores t.
func (s *TodoService) CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	if t.Title == "" {
		t.Title = todo.DefaultTitle
	}
	if t.DueDate.IsZero() {
		t.DueDate = todo.Today(s.now())
	}
	if t.Status == "" {
		t.Status = todo.StatusPending
	}
	if t.TimeTracked < 0 {
		return nil, NewFieldsError(FieldError{Field: "time_tracked", Rule: "min", Param: "0"})
	}
	t.DueDate = todo.DateOf(t.DueDate)

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	logger.Info("Service: todo created", zap.Int64("id", t.ID))
	return t, nil
}

// ListTodos returns todos whose title contains search, ordered by sort.
func (s *TodoService) ListTodos(ctx context.Context, search string, sort filter.Sort) ([]*todo.Todo, error) {
	todos, err := s.repo.List(ctx, filter.Filter{TitleContains: search}, sort)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return t, nil
}

// UpdateTodo applies the supplied options to the stored todo. Options that
// are nil leave their field untouched.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, options ...todo.Option) (*todo.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	todo.Apply(t, options...)

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, s.lookupError(id, err)
	}

	logger.Info("Service: todo updated", zap.Int64("id", id))
	return t, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.lookupError(id, err)
	}

	logger.Info("Service: todo deleted", zap.Int64("id", id))
	return nil
}

// BulkDeleteTodos deletes ids only when every one of them exists. Missing
// ids are reported per position as ids.N and nothing is deleted.
func (s *TodoService) BulkDeleteTodos(ctx context.Context, ids []int64) (int64, error) {
	existing, err := s.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("check ids: %w", err)
	}

	found := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}

	var missing []FieldError
	for i, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, FieldError{Field: "ids." + strconv.Itoa(i), Rule: "exists"})
		}
	}
	if len(missing) > 0 {
		logger.Info("Service: bulk delete rejected", zap.Int("missing", len(missing)))
		return 0, NewFieldsError(missing...)
	}

	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete todos: %w", err)
	}
	if deleted == 0 {
		return 0, NewNotFound(resourceTodo, fmt.Sprint(ids), rep.ErrNotFound)
	}

	logger.Info("Service: todos deleted", zap.Int64("count", deleted))
	return deleted, nil
}

// Chart summarizes the todos matching f. An empty filter covers the whole store.
func (s *TodoService) Chart(ctx context.Context, kind aggregate.Kind, f filter.Filter) (aggregate.Result, error) {
	todos, err := s.repo.List(ctx, f, filter.DefaultSort)
	if err != nil {
		return aggregate.Result{}, fmt.Errorf("chart todos: %w", err)
	}

	result, err := aggregate.Summarize(kind, todos)
	if err != nil {
		return aggregate.Result{}, NewFieldsError(FieldError{Field: "type", Rule: "oneof", Param: "status priority assignee"})
	}
	return result, nil
}

// ReportTodos returns the todos matching f ordered by due date.
func (s *TodoService) ReportTodos(ctx context.Context, f filter.Filter) ([]*todo.Todo, error) {
	todos, err := s.repo.List(ctx, f, filter.ExportSort)
	if err != nil {
		return nil, fmt.Errorf("report todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) lookupError(id int64, err error) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: todo not found", zap.Int64("target_id", id))
		return NewNotFound(resourceTodo, strconv.FormatInt(id, 10), err)
	}
	return fmt.Errorf("todo %d: %w", id, err)
}
