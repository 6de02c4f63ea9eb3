package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
)

func TestEngineEmitsInDueOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(DueAlert{TaskID: "later", DueAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(DueAlert{TaskID: "sooner", DueAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlert(t, engine.C(), time.Second)
	second := waitAlert(t, engine.C(), time.Second)
	if first.TaskID != "sooner" || second.TaskID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.TaskID, second.TaskID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(DueAlert{TaskID: "task", DueAt: now}); err != nil {
			t.Fatalf("schedule alert: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alerts > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesDueTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(DueAlert{TaskID: "bad"}); err != ErrInvalidDueTime {
		t.Fatalf("expected ErrInvalidDueTime, got %v", err)
	}
}

func TestReplaceDoesNotRefireAlerts(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	past := time.Now().UTC().Add(-time.Hour)
	alerts := []DueAlert{{TaskID: "t1", Title: "Overdue", DueAt: past}}
	if err := engine.Replace(alerts); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got := waitAlert(t, engine.C(), time.Second)
	if got.TaskID != "t1" || got.Title != "Overdue" {
		t.Fatalf("unexpected alert: %#v", got)
	}

	if err := engine.Replace(alerts); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected fired alert to be skipped, pending=%d", engine.Pending())
	}

	moved := []DueAlert{{TaskID: "t1", Title: "Overdue", DueAt: past.Add(time.Minute)}}
	if err := engine.Replace(moved); err != nil {
		t.Fatalf("replace with new due time: %v", err)
	}
	if got := waitAlert(t, engine.C(), time.Second); !got.DueAt.Equal(moved[0].DueAt) {
		t.Fatalf("expected alert for new due time, got %#v", got)
	}
}

func TestReplaceDropsStalePlan(t *testing.T) {
	engine := NewEngine(4)
	future := time.Now().UTC().Add(time.Hour)
	if err := engine.Schedule(DueAlert{TaskID: "old", DueAt: future}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Replace([]DueAlert{
		{TaskID: "a", DueAt: future},
		{TaskID: "a", DueAt: future},
		{TaskID: "b"},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one deduplicated alert, got %d", engine.Pending())
	}
}

func TestPlanAlertsSkipsClosedAndUndated(t *testing.T) {
	due := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "open", Title: "Open", DueDate: due},
		{ID: "done", Title: "Done", DueDate: due, Completed: true, Status: model.StatusDone},
		{ID: "undated", Title: "No date"},
	}
	alerts := PlanAlerts(tasks)
	if len(alerts) != 1 || alerts[0].TaskID != "open" || !alerts[0].DueAt.Equal(due) {
		t.Fatalf("unexpected plan: %#v", alerts)
	}
}

func TestStopClosesChannel(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected closed channel after stop")
	}
	if err := engine.Replace(nil); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func waitAlert(t *testing.T, ch <-chan DueAlert, timeout time.Duration) DueAlert {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alert")
		return DueAlert{}
	}
}

func TestReplaceForgetsAlertsLeavingThePlan(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	past := time.Now().UTC().Add(-time.Minute)
	plan := []DueAlert{
		{TaskID: "kept", DueAt: past},
		{TaskID: "deleted", DueAt: past},
	}
	if err := engine.Replace(plan); err != nil {
		t.Fatalf("replace: %v", err)
	}
	waitAlert(t, engine.C(), time.Second)
	waitAlert(t, engine.C(), time.Second)

	if err := engine.Replace(plan[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	engine.mu.Lock()
	_, keptFired := engine.fired[plan[0].key()]
	remembered := len(engine.fired)
	engine.mu.Unlock()
	if remembered != 1 || !keptFired {
		t.Fatalf("expected only the kept alert remembered, got %d entries", remembered)
	}
	if engine.Pending() != 0 {
		t.Fatalf("kept alert must not refire, pending=%d", engine.Pending())
	}
}
