// Package sqlite is the single-file store. Dates are kept as YYYY-MM-DD
// text and timestamps as RFC 3339 text.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"
	repo "todoTracker/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
)

const (
	slowQuery       = 100 * time.Millisecond
	timestampLayout = time.RFC3339Nano
)

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

func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(filter.FoldFunc, 1, foldLower); err != nil {
		panic(fmt.Sprintf("register %s: %v", filter.FoldFunc, err))
	}
}

// foldLower lower-cases text with Unicode rules, matching filter.ContainsFold.
func foldLower(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at path, creating its directory when needed.
func Open(path string) (*Storage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("Repository: failed to open SQLite database", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	logger.Info("Repository: opened SQLite database", zap.String("path", path))
	return &Storage{db: db, now: time.Now}, nil
}

// DB exposes the handle for schema migrations.
func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("Repository: failed to close SQLite database", err)
		return
	}
	logger.Info("Repository: SQLite database closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, t *todo.Todo) error {
	start := time.Now()
	now := s.now().UTC()

	query, args, err := sq.Insert("todo_lists").
		Columns("title", "assignees", "due_date", "time_tracked", "status", "priority", "type", "estimated_sp", "actual_sp", "created_at", "updated_at").
		Values(
			t.Title,
			t.Assignees,
			t.DueDate.Format(todo.DateLayout),
			t.TimeTracked,
			string(t.Status),
			nullable(t.PriorityValue()),
			nullable(t.TypeValue()),
			nullableInt(t.EstimatedSP),
			nullableInt(t.ActualSP),
			now.Format(timestampLayout),
			now.Format(timestampLayout),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to create todo", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("create todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}

	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now

	logSlow("create", start)
	return nil
}

func (s *Storage) Update(ctx context.Context, t *todo.Todo) error {
	start := time.Now()
	now := s.now().UTC()

	query, args, err := sq.Update("todo_lists").
		SetMap(map[string]any{
			"title":        t.Title,
			"assignees":    t.Assignees,
			"due_date":     t.DueDate.Format(todo.DateLayout),
			"time_tracked": t.TimeTracked,
			"status":       string(t.Status),
			"priority":     nullable(t.PriorityValue()),
			"type":         nullable(t.TypeValue()),
			"estimated_sp": nullableInt(t.EstimatedSP),
			"actual_sp":    nullableInt(t.ActualSP),
			"updated_at":   now.Format(timestampLayout),
		}).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to update todo", err, zap.Int64("id", t.ID))
		return fmt.Errorf("update todo: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repo.ErrNotFound
	}

	t.UpdatedAt = now
	logSlow("update", start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*todo.Todo, error) {
	start := time.Now()

	query, args, err := sq.Select(columns...).
		From("todo_lists").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	t, err := scanTodo(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get todo", err, zap.Int64("id", id))
		return nil, fmt.Errorf("get todo: %w", err)
	}

	logSlow("get", start)
	return t, nil
}

func (s *Storage) List(ctx context.Context, f filter.Filter, sort filter.Sort) ([]*todo.Todo, error) {
	start := time.Now()

	builder := sq.Select(columns...).From("todo_lists")
	query, args, err := filter.Apply(builder, f, filter.SQLite).
		OrderBy(sort.OrderBy()...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo_lists WHERE id = ?`, id)
	if err != nil {
		logger.Error("Repository: failed to delete todo", err, zap.Int64("id", id))
		return fmt.Errorf("delete todo: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sq.Delete("todo_lists").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to delete todos", err, zap.Int("ids", len(ids)))
		return 0, fmt.Errorf("delete todos: %w", err)
	}
	return res.RowsAffected()
}

func (s *Storage) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	found := []int64{}
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sq.Select("id").From("todo_lists").Where(sq.Eq{"id": ids}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("existing ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("existing ids: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*todo.Todo, error) {
	var (
		t         todo.Todo
		dueDate   string
		status    string
		priority  sql.NullString
		kind      sql.NullString
		estimated sql.NullInt64
		actual    sql.NullInt64
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Assignees,
		&dueDate,
		&t.TimeTracked,
		&status,
		&priority,
		&kind,
		&estimated,
		&actual,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if t.DueDate, err = todo.ParseDate(dueDate); err != nil {
		return nil, fmt.Errorf("parse due_date %q: %w", dueDate, err)
	}
	if t.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(timestampLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	t.Status = todo.Status(status)
	if priority.Valid {
		p := todo.Priority(priority.String)
		t.Priority = &p
	}
	if kind.Valid {
		k := todo.Type(kind.String)
		t.Type = &k
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		t.EstimatedSP = &v
	}
	if actual.Valid {
		v := int(actual.Int64)
		t.ActualSP = &v
	}
	return &t, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func logSlow(op string, start time.Time, fields ...zap.Field) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		fields = append(fields, zap.String("op", op), zap.Duration("ms", elapsed))
		logger.Warn("Repository: slow query", fields...)
	}
}
