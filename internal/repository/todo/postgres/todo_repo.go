package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

var columns = []string{
	"id",
	"COALESCE(title, '')",
	"COALESCE(assignees, '')",
	"due_date",
	"COALESCE(time_tracked, 0)",
	"status",
	"priority",
	"type",
	"estimated_sp",
	"actual_sp",
	"created_at",
	"updated_at",
}

// Limits configures the connection pool. Zero values keep the defaults.
type Limits struct {
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, connString string, limits Limits) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: failed to parse pool config", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if limits.MaxConns > 0 {
		config.MaxConns = limits.MaxConns
	}
	if limits.MinConns > 0 {
		config.MinConns = limits.MinConns
	}
	if limits.IdleTimeout > 0 {
		config.MaxConnIdleTime = limits.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, t *todo.Todo) error {
	start := time.Now()

	query := `INSERT INTO todo_lists
				(title, assignees, due_date, time_tracked, status, priority, type, estimated_sp, actual_sp)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		t.Title,
		t.Assignees,
		todo.DateOf(t.DueDate),
		t.TimeTracked,
		string(t.Status),
		nullable(t.PriorityValue()),
		nullable(t.TypeValue()),
		t.EstimatedSP,
		t.ActualSP,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		logger.Error("Repository: failed to create todo", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("create todo: %w", err)
	}

	logSlow("create", start)
	return nil
}

func (s *Storage) Update(ctx context.Context, t *todo.Todo) error {
	start := time.Now()

	query := `UPDATE todo_lists
			SET title = $1,
				assignees = $2,
				due_date = $3,
				time_tracked = $4,
				status = $5,
				priority = $6,
				type = $7,
				estimated_sp = $8,
				actual_sp = $9,
				updated_at = NOW()
			WHERE id = $10
			RETURNING updated_at`

	err := s.pool.QueryRow(ctx, query,
		t.Title,
		t.Assignees,
		todo.DateOf(t.DueDate),
		t.TimeTracked,
		string(t.Status),
		nullable(t.PriorityValue()),
		nullable(t.TypeValue()),
		t.EstimatedSP,
		t.ActualSP,
		t.ID,
	).Scan(&t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update todo", err, zap.Int64("id", t.ID))
		return fmt.Errorf("update todo: %w", err)
	}

	logSlow("update", start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := sq.Select(columns...).
		From("todo_lists").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	t, err := scanTodo(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get todo", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("get todo: %w", err)
	}

	logSlow("get", start)
	return t, nil
}

// List returns the todos matching f, ordered by s.
func (s *Storage) List(ctx context.Context, f filter.Filter, sort filter.Sort) ([]*todo.Todo, error) {
	start := time.Now()

	builder := sq.Select(columns...).From("todo_lists")
	query, args, err := filter.Apply(builder, f, filter.Postgres).
		OrderBy(sort.OrderBy()...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list todos", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	logSlow("list", start, zap.Int("rows", len(todos)))
	return todos, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM todo_lists WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete todo", err, zap.Int64("id", id))
		return fmt.Errorf("delete todo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	logSlow("delete", start)
	return nil
}

// DeleteMany removes the given ids and reports how many rows were removed.
func (s *Storage) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	start := time.Now()

	query, args, err := sq.Delete("todo_lists").
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to delete todos", err, zap.Int("ids", len(ids)))
		return 0, fmt.Errorf("delete todos: %w", err)
	}

	logSlow("delete many", start)
	return tag.RowsAffected(), nil
}

// ExistingIDs returns the subset of ids present in the store.
func (s *Storage) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	query, args, err := sq.Select("id").
		From("todo_lists").
		Where(sq.Eq{"id": ids}).
		OrderBy("id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}
	return found, nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	var (
		t        todo.Todo
		status   string
		priority *string
		kind     *string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Assignees,
		&t.DueDate,
		&t.TimeTracked,
		&status,
		&priority,
		&kind,
		&t.EstimatedSP,
		&t.ActualSP,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.DueDate = todo.DateOf(t.DueDate)
	t.Status = todo.Status(status)
	if priority != nil {
		p := todo.Priority(*priority)
		t.Priority = &p
	}
	if kind != nil {
		k := todo.Type(*kind)
		t.Type = &k
	}
	return &t, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func logSlow(op string, start time.Time, fields ...zap.Field) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		fields = append(fields, zap.String("op", op), zap.Duration("ms", elapsed))
		logger.Warn("Repository: slow query", fields...)
	}
}
