// Package aggregate computes the chart summaries over a set of todos.
package aggregate

import (
	"errors"
	"strings"
	"todoTracker/internal/filter"
	"todoTracker/internal/models/todo"
)

var ErrUnknownKind = errors.New("unknown summary kind")

type Kind string

const (
	KindStatus   Kind = "status"
	KindPriority Kind = "priority"
	KindAssignee Kind = "assignee"
)

var Kinds = []Kind{KindStatus, KindPriority, KindAssignee}

func ParseKind(value string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == value {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// AssigneeStats is computed per distinct assignee name over the whole
// input set, matching every todo whose assignees contain the name.
type AssigneeStats struct {
	TotalRecords        int `json:"total_records"`
	TotalPendingRecords int `json:"total_pending_records"`
	TotalTimeTracked    int `json:"total_time_tracked"`
}

// Result holds one summary. Counts is set for status and priority,
// Assignees for assignee.
type Result struct {
	Kind      Kind
	Counts    map[string]int
	Assignees map[string]AssigneeStats
}

func Summarize(kind Kind, todos []*todo.Todo) (Result, error) {
	switch kind {
	case KindStatus:
		return Result{Kind: kind, Counts: StatusSummary(todos)}, nil
	case KindPriority:
		return Result{Kind: kind, Counts: PrioritySummary(todos)}, nil
	case KindAssignee:
		return Result{Kind: kind, Assignees: AssigneeSummary(todos)}, nil
	default:
		return Result{}, ErrUnknownKind
	}
}

// StatusSummary counts todos per canonical status. Every status key is
// present; unknown statuses are not counted.
func StatusSummary(todos []*todo.Todo) map[string]int {
	counts := make(map[string]int, len(todo.Statuses))
	for _, s := range todo.Statuses {
		counts[string(s)] = 0
	}

	for _, t := range todos {
		if _, ok := counts[string(t.Status)]; ok {
			counts[string(t.Status)]++
		}
	}
	return counts
}

func PrioritySummary(todos []*todo.Todo) map[string]int {
	counts := make(map[string]int, len(todo.Priorities))
	for _, p := range todo.Priorities {
		counts[string(p)] = 0
	}

	for _, t := range todos {
		if t.Priority == nil {
			continue
		}
		if _, ok := counts[string(*t.Priority)]; ok {
			counts[string(*t.Priority)]++
		}
	}
	return counts
}

// AssigneeSummary groups by the distinct names found in the assignees
// field. A name that is a substring of another name ("Bob" in
// "Bob Wilson") also counts the other name's todos.
func AssigneeSummary(todos []*todo.Todo) map[string]AssigneeStats {
	names := distinctNames(todos)

	summary := make(map[string]AssigneeStats, len(names))
	for _, name := range names {
		var stats AssigneeStats
		for _, t := range todos {
			if !filter.ContainsFold(t.Assignees, name) {
				continue
			}
			stats.TotalRecords++
			if t.Status == todo.StatusPending {
				stats.TotalPendingRecords++
			}
			stats.TotalTimeTracked += t.TimeTracked
		}
		summary[name] = stats
	}
	return summary
}

// distinctNames returns the assignee names in order of first appearance.
func distinctNames(todos []*todo.Todo) []string {
	seen := make(map[string]struct{})
	names := []string{}

	for _, t := range todos {
		if strings.TrimSpace(t.Assignees) == "" {
			continue
		}
		for _, name := range todo.SplitNames(t.Assignees) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}
