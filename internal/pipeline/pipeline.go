// Package pipeline derives the task list view: filter, then sort, then page.
// Every function is pure and returns new slices.
package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/sandeepkv93/taskboard/internal/model"
)

type FilterStatus string

const (
	FilterAll        FilterStatus = "all"
	FilterCompleted  FilterStatus = "completed"
	FilterIncomplete FilterStatus = "incomplete"
)

var FilterStatuses = []FilterStatus{FilterAll, FilterCompleted, FilterIncomplete}

// PriorityAll disables priority filtering.
const PriorityAll model.Priority = "all"

type FilterOptions struct {
	Status   FilterStatus
	Priority model.Priority
}

func DefaultFilter() FilterOptions {
	return FilterOptions{Status: FilterAll, Priority: PriorityAll}
}

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
)

var SortFields = []SortField{SortCreatedAt, SortDueDate, SortPriority}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type SortOptions struct {
	Field SortField
	Order SortOrder
}

func DefaultSort() SortOptions {
	return SortOptions{Field: SortCreatedAt, Order: OrderDesc}
}

func Filter(tasks []model.Task, opts FilterOptions) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch opts.Status {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		if opts.Priority != "" && opts.Priority != PriorityAll && t.Priority != opts.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders tasks stably. Priority uses the same direction as the date
// fields: ascending puts low first, descending puts high first.
func Sort(tasks []model.Task, opts SortOptions) []model.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []model.Task{}
	}
	compare := comparator(opts.Field)
	slices.SortStableFunc(out, func(a, b model.Task) int {
		if opts.Order == OrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

func comparator(field SortField) func(a, b model.Task) int {
	switch field {
	case SortDueDate:
		return func(a, b model.Task) int { return a.DueDate.Compare(b.DueDate) }
	case SortPriority:
		return func(a, b model.Task) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	default:
		return func(a, b model.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

func Apply(tasks []model.Task, filter FilterOptions, sort SortOptions) []model.Task {
	return Sort(Filter(tasks, filter), sort)
}

func ParseFilterStatus(raw string) (FilterStatus, error) {
	s := FilterStatus(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(FilterStatuses, s) {
		return s, nil
	}
	return "", fmt.Errorf("pipeline: unknown status filter %q", raw)
}

func ParsePriorityFilter(raw string) (model.Priority, error) {
	if strings.EqualFold(strings.TrimSpace(raw), string(PriorityAll)) {
		return PriorityAll, nil
	}
	return model.ParsePriority(raw)
}

func ParseSortField(raw string) (SortField, error) {
	trimmed := strings.TrimSpace(raw)
	for _, f := range SortFields {
		if strings.EqualFold(trimmed, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("pipeline: unknown sort field %q", raw)
}

func ParseSortOrder(raw string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("pipeline: unknown sort order %q", raw)
	}
}

// Next cycles through values, wrapping at the end.
func Next[T comparable](values []T, current T) T {
	if len(values) == 0 {
		return current
	}
	i := slices.Index(values, current)
	return values[(i+1)%len(values)]
}
