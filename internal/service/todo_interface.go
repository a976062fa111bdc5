package service

import (
	"context"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *todo.Todo) error
	Update(context.Context, *todo.Todo) error
	GetByID(context.Context, int64) (*todo.Todo, error)
	List(context.Context, filter.Filter, filter.Sort) ([]*todo.Todo, error)
	Delete(context.Context, int64) error
	DeleteMany(context.Context, []int64) (int64, error)
	ExistingIDs(context.Context, []int64) ([]int64, error)
}

// RepoType names the store behind the service.
type RepoType string

const (
	PostgresType RepoType = "postgres"
	SQLiteType   RepoType = "sqlite"
	InMemoryType RepoType = "inmemory"
)

func (r RepoType) IsValid() bool {
	switch r {
	case PostgresType, SQLiteType, InMemoryType:
		return true
	}
	return false
}
