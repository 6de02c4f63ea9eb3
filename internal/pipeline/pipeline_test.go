package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
)

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func prioritized(id string, p model.Priority) model.Task {
	return model.Task{ID: id, Priority: p, Status: model.StatusTodo}
}

func TestFilterIncompleteKeepsOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Completed: true, Status: model.StatusDone},
		{ID: "b"},
		{ID: "c"},
	}
	got := Filter(tasks, FilterOptions{Status: FilterIncomplete, Priority: PriorityAll})
	if !reflect.DeepEqual(ids(got), []string{"b", "c"}) {
		t.Fatalf("unexpected filter result: %v", ids(got))
	}

	got = Filter(tasks, FilterOptions{Status: FilterCompleted, Priority: PriorityAll})
	if !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Fatalf("unexpected completed filter result: %v", ids(got))
	}
	if len(Filter(tasks, DefaultFilter())) != 3 {
		t.Fatal("expected all filter to be identity")
	}
}

func TestFilterPriority(t *testing.T) {
	tasks := []model.Task{
		prioritized("1", model.PriorityLow),
		prioritized("2", model.PriorityHigh),
		prioritized("3", model.PriorityHigh),
	}
	got := Filter(tasks, FilterOptions{Status: FilterAll, Priority: model.PriorityHigh})
	if !reflect.DeepEqual(ids(got), []string{"2", "3"}) {
		t.Fatalf("unexpected priority filter: %v", ids(got))
	}
}

func TestSortPriorityDirection(t *testing.T) {
	tasks := []model.Task{
		prioritized("low", model.PriorityLow),
		prioritized("high", model.PriorityHigh),
		prioritized("medium", model.PriorityMedium),
	}
	desc := Sort(tasks, SortOptions{Field: SortPriority, Order: OrderDesc})
	if !reflect.DeepEqual(ids(desc), []string{"high", "medium", "low"}) {
		t.Fatalf("unexpected desc order: %v", ids(desc))
	}
	asc := Sort(tasks, SortOptions{Field: SortPriority, Order: OrderAsc})
	if !reflect.DeepEqual(ids(asc), []string{"low", "medium", "high"}) {
		t.Fatalf("unexpected asc order: %v", ids(asc))
	}
	if tasks[0].ID != "low" {
		t.Fatal("expected input slice untouched")
	}
}

func TestSortDatesAndStability(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }
	tasks := []model.Task{
		{ID: "a", CreatedAt: day(3), DueDate: day(10)},
		{ID: "b", CreatedAt: day(1), DueDate: day(10)},
		{ID: "c", CreatedAt: day(2), DueDate: day(5)},
		{ID: "d", CreatedAt: day(1), DueDate: day(10)},
	}

	got := Sort(tasks, SortOptions{Field: SortCreatedAt, Order: OrderAsc})
	if !reflect.DeepEqual(ids(got), []string{"b", "d", "c", "a"}) {
		t.Fatalf("unexpected createdAt asc: %v", ids(got))
	}
	got = Sort(tasks, SortOptions{Field: SortCreatedAt, Order: OrderDesc})
	if !reflect.DeepEqual(ids(got), []string{"a", "c", "b", "d"}) {
		t.Fatalf("unexpected createdAt desc: %v", ids(got))
	}
	got = Sort(tasks, SortOptions{Field: SortDueDate, Order: OrderAsc})
	if !reflect.DeepEqual(ids(got), []string{"c", "a", "b", "d"}) {
		t.Fatalf("unexpected dueDate asc: %v", ids(got))
	}
}

func TestApplyFiltersThenSorts(t *testing.T) {
	tasks := []model.Task{
		prioritized("1", model.PriorityLow),
		{ID: "2", Priority: model.PriorityHigh, Completed: true, Status: model.StatusDone},
		prioritized("3", model.PriorityHigh),
		prioritized("4", model.PriorityMedium),
	}
	got := Apply(tasks, FilterOptions{Status: FilterIncomplete, Priority: PriorityAll}, SortOptions{Field: SortPriority, Order: OrderDesc})
	if !reflect.DeepEqual(ids(got), []string{"3", "4", "1"}) {
		t.Fatalf("unexpected pipeline output: %v", ids(got))
	}
}

func TestParsers(t *testing.T) {
	if s, err := ParseFilterStatus("Completed"); err != nil || s != FilterCompleted {
		t.Fatalf("unexpected status parse: %q %v", s, err)
	}
	if _, err := ParseFilterStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
	if f, err := ParseSortField("duedate"); err != nil || f != SortDueDate {
		t.Fatalf("unexpected field parse: %q %v", f, err)
	}
	if o, err := ParseSortOrder("ASC"); err != nil || o != OrderAsc {
		t.Fatalf("unexpected order parse: %q %v", o, err)
	}
	if p, err := ParsePriorityFilter("all"); err != nil || p != PriorityAll {
		t.Fatalf("unexpected priority parse: %q %v", p, err)
	}
	if Next(SortFields, SortPriority) != SortCreatedAt {
		t.Fatal("expected Next to wrap")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 2, 1)
	if !reflect.DeepEqual(p.Items, []int{1, 2}) || p.TotalPages != 3 || !p.HasNext || p.HasPrevious {
		t.Fatalf("unexpected first page: %+v", p)
	}
	p = Paginate(items, 2, 3)
	if !reflect.DeepEqual(p.Items, []int{5}) || p.HasNext || !p.HasPrevious {
		t.Fatalf("unexpected last page: %+v", p)
	}
	p = Paginate(items, 2, 9)
	if len(p.Items) != 0 || p.HasNext {
		t.Fatalf("expected empty out-of-range page: %+v", p)
	}
	p = Paginate([]int{}, 10, 0)
	if p.Page != 1 || p.TotalPages != 0 || len(p.Items) != 0 {
		t.Fatalf("unexpected empty pagination: %+v", p)
	}
}
