package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"
)

// TodoStorage keeps todos in a map. Stored values are copies, so callers
// never share a record with the store.
type TodoStorage struct {
	storage map[int64]*todo.Todo
	mtx     *sync.RWMutex
	lastID  int64
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[int64]*todo.Todo),
		mtx:     &sync.RWMutex{},
		now:     time.Now,
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *TodoStorage) Create(ctx context.Context, t *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.lastID++
	now := s.now()

	t.ID = s.lastID
	t.DueDate = todo.DateOf(t.DueDate)
	t.CreatedAt = now
	t.UpdatedAt = now

	s.storage[t.ID] = clone(t)
	return nil
}

func (s *TodoStorage) Update(ctx context.Context, t *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[t.ID]
	if !ok {
		return repo.ErrNotFound
	}

	t.DueDate = todo.DateOf(t.DueDate)
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()

	s.storage[t.ID] = clone(t)
	return nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(t), nil
}

func (s *TodoStorage) List(ctx context.Context, f filter.Filter, sort filter.Sort) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	for _, t := range s.storage {
		if f.Match(t) {
			res = append(res, clone(t))
		}
	}

	slices.SortFunc(res, func(a, b *todo.Todo) int {
		switch {
		case sort.Less(a, b):
			return -1
		case sort.Less(b, a):
			return 1
		default:
			return 0
		}
	})
	return res, nil
}

func (s *TodoStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

func (s *TodoStorage) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := s.storage[id]; !ok {
			continue
		}
		delete(s.storage, id)
		deleted++
	}
	return deleted, nil
}

func (s *TodoStorage) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found := []int64{}
	for _, id := range ids {
		if _, ok := s.storage[id]; ok && !slices.Contains(found, id) {
			found = append(found, id)
		}
	}
	slices.Sort(found)
	return found, nil
}

func clone(t *todo.Todo) *todo.Todo {
	c := *t
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.Type != nil {
		k := *t.Type
		c.Type = &k
	}
	if t.EstimatedSP != nil {
		v := *t.EstimatedSP
		c.EstimatedSP = &v
	}
	if t.ActualSP != nil {
		v := *t.ActualSP
		c.ActualSP = &v
	}
	return &c
}
