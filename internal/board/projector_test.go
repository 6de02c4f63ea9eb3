package board

import (
	"reflect"
	"testing"

	"github.com/sandeepkv93/taskboard/internal/model"
)

func task(id string, status model.Status) model.Task {
	return model.Task{
		ID:        id,
		Title:     "task " + id,
		Priority:  model.PriorityMedium,
		Status:    status,
		Completed: status == model.StatusDone,
	}
}

func assertIDs(t *testing.T, cols Columns, status model.Status, want ...string) {
	t.Helper()
	got := cols.IDs(status)
	if len(want) == 0 {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("bucket %s: expected %v, got %v", status, want, got)
	}
}

func TestProjectPartitionsByStatus(t *testing.T) {
	cols := Project([]model.Task{task("1", model.StatusTodo), task("2", model.StatusDone)})
	assertIDs(t, cols, model.StatusTodo, "1")
	assertIDs(t, cols, model.StatusInProgress)
	assertIDs(t, cols, model.StatusDone, "2")
}

func TestProjectPreservesOrderAndDropsUnknown(t *testing.T) {
	tasks := []model.Task{
		task("a", model.StatusDone),
		task("b", model.StatusTodo),
		task("x", model.Status("blocked")),
		task("c", model.StatusDone),
		task("d", model.StatusInProgress),
		task("y", ""),
		task("e", model.StatusTodo),
	}
	cols := Project(tasks)
	assertIDs(t, cols, model.StatusTodo, "b", "e")
	assertIDs(t, cols, model.StatusInProgress, "d")
	assertIDs(t, cols, model.StatusDone, "a", "c")
	if cols.Len() != 5 {
		t.Fatalf("expected 5 projected tasks, got %d", cols.Len())
	}
	if _, _, ok := cols.Find("x"); ok {
		t.Fatal("expected unknown status to be dropped")
	}
}

func TestProjectIdempotentOverFlatten(t *testing.T) {
	tasks := []model.Task{
		task("1", model.StatusInProgress),
		task("2", model.StatusTodo),
		task("3", model.StatusDone),
		task("4", model.StatusTodo),
		task("5", model.StatusInProgress),
	}
	first := Project(tasks)
	second := Project(first.Flatten())
	for _, s := range model.Statuses {
		if !reflect.DeepEqual(first.IDs(s), second.IDs(s)) {
			t.Fatalf("bucket %s differs: %v vs %v", s, first.IDs(s), second.IDs(s))
		}
	}
}

func TestProjectEmptyHasAllBuckets(t *testing.T) {
	cols := Project(nil)
	for _, s := range model.Statuses {
		bucket, ok := cols[s]
		if !ok || bucket == nil || len(bucket) != 0 {
			t.Fatalf("expected empty non-nil bucket for %s, got %#v", s, bucket)
		}
	}
}

func TestSignatureEqual(t *testing.T) {
	a := []model.Task{task("1", model.StatusTodo), task("2", model.StatusDone)}
	b := []model.Task{task("1", model.StatusTodo), task("2", model.StatusDone)}
	b[0].Title = "renamed"
	if !SignatureOf(a).Equal(SignatureOf(b)) {
		t.Fatal("expected title-only change to keep signature")
	}
	b[1].Status = model.StatusTodo
	if SignatureOf(a).Equal(SignatureOf(b)) {
		t.Fatal("expected status change to alter signature")
	}
	if SignatureOf(a).Equal(SignatureOf(a[:1])) {
		t.Fatal("expected length change to alter signature")
	}
	swapped := []model.Task{a[1], a[0]}
	if SignatureOf(a).Equal(SignatureOf(swapped)) {
		t.Fatal("expected reorder to alter signature")
	}
}

func TestSnapshotStoreCopies(t *testing.T) {
	in := []model.Task{task("1", model.StatusTodo)}
	store := NewSnapshotStore(in)
	in[0].Status = model.StatusDone

	got := store.Tasks()
	if got[0].Status != model.StatusTodo {
		t.Fatal("expected store to copy on Replace")
	}
	got[0].Title = "mutated"
	if again, _ := store.Get("1"); again.Title == "mutated" {
		t.Fatal("expected store to copy on read")
	}

	store.Upsert(task("2", model.StatusDone))
	store.Upsert(task("1", model.StatusInProgress))
	if store.Len() != 2 {
		t.Fatalf("expected 2 tasks, got %d", store.Len())
	}
	if first, _ := store.Get("1"); first.Status != model.StatusInProgress {
		t.Fatalf("expected upsert in place, got %+v", first)
	}
	if !store.Remove("2") || store.Remove("2") {
		t.Fatal("unexpected remove results")
	}
}

func TestPayloadVariant(t *testing.T) {
	var none Payload
	if none.Kind() != PayloadNone {
		t.Fatal("expected zero payload to be none")
	}
	if _, ok := none.Card(); ok {
		t.Fatal("expected no card on zero payload")
	}
	card := CardPayload(task("1", model.StatusTodo))
	if got, ok := card.Card(); !ok || got.ID != "1" {
		t.Fatalf("unexpected card payload: %+v", got)
	}
	if _, ok := card.Column(); ok {
		t.Fatal("expected card payload to carry no column")
	}
	col := ColumnPayload(model.StatusDone)
	if got, ok := col.Column(); !ok || got != model.StatusDone {
		t.Fatalf("unexpected column payload: %q", got)
	}
}
