package handlers

import (
	"context"
	"todoTracker/internal/aggregate"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
)

type Service interface {
	HealthCheck(ctx context.Context) error
	CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error)
	ListTodos(ctx context.Context, search string, sort filter.Sort) ([]*todo.Todo, error)
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)
	UpdateTodo(ctx context.Context, id int64, options ...todo.Option) (*todo.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	BulkDeleteTodos(ctx context.Context, ids []int64) (int64, error)
	Chart(ctx context.Context, kind aggregate.Kind, f filter.Filter) (aggregate.Result, error)
	ReportTodos(ctx context.Context, f filter.Filter) ([]*todo.Todo, error)
}
