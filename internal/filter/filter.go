// Package filter turns optional todo criteria into a predicate, either as a
// SQL WHERE clause for the relational stores or as an in-memory match.
package filter

import (
	"strings"
	"time"
	"todoTracker/internal/models/todo"

	sq "github.com/Masterminds/squirrel"
)

type DateRange struct {
	Start time.Time
	End   time.Time
}

type IntRange struct {
	Min int
	Max int
}

// Filter holds optional criteria. Zero values impose no constraint.
// All supplied criteria are combined with AND, assignee names with OR.
type Filter struct {
	TitleContains      string
	AssigneesAnyOf     []string
	DueDateBetween     *DateRange
	TimeTrackedBetween *IntRange
	StatusIn           []string
	PriorityIn         []string
}

// FoldFunc is the SQL function a store registers to lower-case text the
// same way ContainsFold does.
const FoldFunc = "fold_lower"

// Dialect carries the per-store differences of the generated SQL.
// When Fold names a function, the column goes through it and the pattern
// is lower-cased before LIKE.
type Dialect struct {
	Placeholder  sq.PlaceholderFormat
	LikeOperator string
	Fold         string
	DateArg      func(time.Time) any
}

var Postgres = Dialect{
	Placeholder:  sq.Dollar,
	LikeOperator: "ILIKE",
	DateArg:      func(t time.Time) any { return todo.DateOf(t) },
}

// SQLite stores dates as YYYY-MM-DD text, which compares in date order.
// Its LIKE folds ASCII only, so matching goes through FoldFunc.
var SQLite = Dialect{
	Placeholder:  sq.Question,
	LikeOperator: "LIKE",
	Fold:         FoldFunc,
	DateArg:      func(t time.Time) any { return todo.DateOf(t).Format(todo.DateLayout) },
}

func (f Filter) IsEmpty() bool {
	return f.TitleContains == "" &&
		len(f.assignees()) == 0 &&
		f.DueDateBetween == nil &&
		f.TimeTrackedBetween == nil &&
		len(f.StatusIn) == 0 &&
		len(f.PriorityIn) == 0
}

func (f Filter) assignees() []string {
	names := make([]string, 0, len(f.AssigneesAnyOf))
	for _, name := range f.AssigneesAnyOf {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Apply adds the WHERE conditions of f to builder.
func Apply(builder sq.SelectBuilder, f Filter, d Dialect) sq.SelectBuilder {
	builder = builder.PlaceholderFormat(d.Placeholder)

	if f.TitleContains != "" {
		builder = builder.Where(like(d, "title", f.TitleContains))
	}

	if names := f.assignees(); len(names) > 0 {
		anyOf := sq.Or{}
		for _, name := range names {
			anyOf = append(anyOf, like(d, "assignees", name))
		}
		builder = builder.Where(anyOf)
	}

	if r := f.DueDateBetween; r != nil {
		builder = builder.Where(sq.Expr("due_date BETWEEN ? AND ?", d.DateArg(r.Start), d.DateArg(r.End)))
	}

	if r := f.TimeTrackedBetween; r != nil {
		builder = builder.Where(sq.Expr("COALESCE(time_tracked, 0) BETWEEN ? AND ?", r.Min, r.Max))
	}

	if len(f.StatusIn) > 0 {
		builder = builder.Where(sq.Eq{"status": f.StatusIn})
	}

	if len(f.PriorityIn) > 0 {
		builder = builder.Where(sq.Eq{"priority": f.PriorityIn})
	}

	return builder
}

func like(d Dialect, column, value string) sq.Sqlizer {
	target := "COALESCE(" + column + ", '')"
	if d.Fold != "" {
		target = d.Fold + "(" + target + ")"
		value = strings.ToLower(value)
	}
	return sq.Expr(target+" "+d.LikeOperator+" ? ESCAPE '\\'", "%"+escapeLike(value)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// Match reports whether t satisfies every active criterion of f.
func (f Filter) Match(t *todo.Todo) bool {
	if f.TitleContains != "" && !ContainsFold(t.Title, f.TitleContains) {
		return false
	}

	if names := f.assignees(); len(names) > 0 {
		found := false
		for _, name := range names {
			if ContainsFold(t.Assignees, name) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if r := f.DueDateBetween; r != nil {
		due := todo.DateOf(t.DueDate)
		if due.Before(todo.DateOf(r.Start)) || due.After(todo.DateOf(r.End)) {
			return false
		}
	}

	if r := f.TimeTrackedBetween; r != nil {
		if t.TimeTracked < r.Min || t.TimeTracked > r.Max {
			return false
		}
	}

	if len(f.StatusIn) > 0 && !contains(f.StatusIn, string(t.Status)) {
		return false
	}

	if len(f.PriorityIn) > 0 && (t.Priority == nil || !contains(f.PriorityIn, string(*t.Priority))) {
		return false
	}

	return true
}

// ContainsFold is a case-insensitive substring test, the in-memory
// counterpart of the stores' LIKE matching.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
