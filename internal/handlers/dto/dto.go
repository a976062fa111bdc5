package dto

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/presenter"
)

// ErrInvalidDeveloper is returned when developer is neither a string nor a
// list of strings.
var ErrInvalidDeveloper = errors.New("developer must be a string or a list of strings")

type CreateTodoRequest struct {
	Task        *string `json:"task" validate:"omitempty,max=255"`
	Developer   *string `json:"developer" validate:"omitempty,max=255"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02,not_past"`
	TimeTracked *int    `json:"time_tracked" validate:"omitempty,min=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending open in_progress completed stuck"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high critical best_effort"`
	Type        *string `json:"type" validate:"omitempty,oneof=feature_enhancements other bug"`
	EstimatedSP *int    `json:"estimated_sp" validate:"omitempty,min=0"`
	ActualSP    *int    `json:"actual_sp" validate:"omitempty,min=0"`
}

// ToTodo builds an unsaved todo. Absent fields stay zero so the service can
// apply its defaults.
func (r CreateTodoRequest) ToTodo() *todo.Todo {
	t := &todo.Todo{
		Title:       deref(r.Task),
		Assignees:   deref(r.Developer),
		Status:      todo.Status(deref(r.Status)),
		EstimatedSP: r.EstimatedSP,
		ActualSP:    r.ActualSP,
	}
	if r.TimeTracked != nil {
		t.TimeTracked = *r.TimeTracked
	}
	if due, err := todo.ParseDate(deref(r.DueDate)); err == nil {
		t.DueDate = due
	}
	if p := deref(r.Priority); p != "" {
		priority := todo.Priority(p)
		t.Priority = &priority
	}
	if k := deref(r.Type); k != "" {
		kind := todo.Type(k)
		t.Type = &kind
	}
	return t
}

// Developers accepts either "A, B" or ["A", "B"] and keeps the names
// joined with a comma.
type Developers string

func (d *Developers) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = Developers(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return ErrInvalidDeveloper
	}
	*d = Developers(presenter.JoinAssignees(list))
	return nil
}

// UpdateTodoRequest is a partial update. Date is accepted as an alias of
// DueDate and wins when both are sent.
type UpdateTodoRequest struct {
	Task        *string     `json:"task" validate:"omitempty,max=255"`
	Developer   *Developers `json:"developer" validate:"omitempty,max=255"`
	Date        *string     `json:"date" validate:"omitempty,datetime=2006-01-02,not_past"`
	DueDate     *string     `json:"due_date" validate:"omitempty,datetime=2006-01-02,not_past"`
	TimeTracked *int        `json:"time_tracked" validate:"omitempty,min=0"`
	Status      *string     `json:"status" validate:"omitempty,oneof=pending open in_progress completed stuck"`
	Priority    *string     `json:"priority" validate:"omitempty,oneof=low medium high critical best_effort"`
	Type        *string     `json:"type" validate:"omitempty,oneof=feature_enhancements other bug"`
	EstimatedSP *int        `json:"estimated_sp" validate:"omitempty,min=0"`
	ActualSP    *int        `json:"actual_sp" validate:"omitempty,min=0"`
}

func (r UpdateTodoRequest) Options() []todo.Option {
	var assignees *string
	if r.Developer != nil {
		joined := string(*r.Developer)
		assignees = &joined
	}

	var due *time.Time
	raw := r.DueDate
	if r.Date != nil && *r.Date != "" {
		raw = r.Date
	}
	if raw != nil {
		if parsed, err := todo.ParseDate(*raw); err == nil {
			due = &parsed
		}
	}

	var status *todo.Status
	if r.Status != nil {
		s := todo.Status(*r.Status)
		status = &s
	}
	var priority *todo.Priority
	if r.Priority != nil {
		p := todo.Priority(*r.Priority)
		priority = &p
	}
	var kind *todo.Type
	if r.Type != nil {
		k := todo.Type(*r.Type)
		kind = &k
	}

	return []todo.Option{
		todo.WithTitle(nonEmpty(r.Task)),
		todo.WithAssignees(assignees),
		todo.WithDueDate(due),
		todo.WithTimeTracked(r.TimeTracked),
		todo.WithStatus(status),
		todo.WithPriority(priority),
		todo.WithType(kind),
		todo.WithEstimatedSP(r.EstimatedSP),
		todo.WithActualSP(r.ActualSP),
	}
}

// BulkDeleteRequest keeps ids undecoded so every position can be checked.
type BulkDeleteRequest struct {
	IDs []any `json:"ids" validate:"required,min=1"`
}

// ReportQuery holds the raw report and chart filters from the query string.
type ReportQuery struct {
	Title    string `json:"title" validate:"omitempty,max=255"`
	Assignee string `json:"assigne"`
	Start    string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	End      string `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Min      string `json:"min" validate:"omitempty,integer"`
	Max      string `json:"max" validate:"omitempty,integer"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

type queryValues interface {
	Get(key string) string
}

func ParseReportQuery(values queryValues) ReportQuery {
	return ReportQuery{
		Title:    strings.TrimSpace(values.Get("title")),
		Assignee: strings.TrimSpace(values.Get("assigne")),
		Start:    strings.TrimSpace(values.Get("start")),
		End:      strings.TrimSpace(values.Get("end")),
		Min:      strings.TrimSpace(values.Get("min")),
		Max:      strings.TrimSpace(values.Get("max")),
		Status:   strings.TrimSpace(values.Get("status")),
		Priority: strings.TrimSpace(values.Get("priority")),
	}
}

// HasDateRange reports whether both ends of the due date range were sent.
func (q ReportQuery) HasDateRange() bool {
	return q.Start != "" && q.End != ""
}

func (q ReportQuery) HasTimeRange() bool {
	return q.Min != "" && q.Max != ""
}

// Filter converts a validated query. Ranges apply only when both ends are
// present; status and priority are comma-separated lists.
func (q ReportQuery) Filter() filter.Filter {
	f := filter.Filter{
		TitleContains: q.Title,
		StatusIn:      splitList(q.Status),
		PriorityIn:    splitList(q.Priority),
	}
	if q.Assignee != "" {
		f.AssigneesAnyOf = strings.Split(q.Assignee, ",")
	}

	if q.HasDateRange() {
		start, errStart := todo.ParseDate(q.Start)
		end, errEnd := todo.ParseDate(q.End)
		if errStart == nil && errEnd == nil {
			f.DueDateBetween = &filter.DateRange{Start: start, End: end}
		}
	}

	if q.HasTimeRange() {
		lo, errMin := strconv.Atoi(q.Min)
		hi, errMax := strconv.Atoi(q.Max)
		if errMin == nil && errMax == nil {
			f.TimeTrackedBetween = &filter.IntRange{Min: lo, Max: hi}
		}
	}
	return f
}

// AppliedFilters echoes the filters that took effect in a preview.
type AppliedFilters struct {
	Title     string `json:"title,omitempty"`
	Assignee  string `json:"assigne,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	MinTime   string `json:"min_time,omitempty"`
	MaxTime   string `json:"max_time,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
}

func (q ReportQuery) Applied() AppliedFilters {
	applied := AppliedFilters{
		Title:    q.Title,
		Assignee: q.Assignee,
		Status:   q.Status,
		Priority: q.Priority,
	}
	if q.HasDateRange() {
		applied.StartDate, applied.EndDate = q.Start, q.End
	}
	if q.HasTimeRange() {
		applied.MinTime, applied.MaxTime = q.Min, q.Max
	}
	return applied
}

type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Assignee    string    `json:"assigne"`
	DueDate     string    `json:"due_date"`
	TimeTracked int       `json:"time_tracked"`
	Status      string    `json:"status"`
	Priority    *string   `json:"priority"`
	Type        *string   `json:"type"`
	EstimatedSP *int      `json:"estimated_sp"`
	ActualSP    *int      `json:"actual_sp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromTodo(t *todo.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Assignee:    t.Assignees,
		DueDate:     presenter.FormatDate(t.DueDate),
		TimeTracked: t.TimeTracked,
		Status:      string(t.Status),
		EstimatedSP: t.EstimatedSP,
		ActualSP:    t.ActualSP,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Priority != nil {
		p := string(*t.Priority)
		resp.Priority = &p
	}
	if t.Type != nil {
		k := string(*t.Type)
		resp.Type = &k
	}
	return resp
}

type ReportSummary struct {
	TotalRecords     int `json:"total_records"`
	TotalTimeTracked int `json:"total_time_tracked"`
}

type PreviewResponse struct {
	Todos          []presenter.PreviewRow `json:"todos"`
	Summary        ReportSummary          `json:"summary"`
	FiltersApplied AppliedFilters         `json:"filters_applied"`
}

func splitList(raw string) []string {
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonEmpty drops an empty title so an update cannot blank it.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
