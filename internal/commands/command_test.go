package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"subtask 3f2a call landlord", TypeSubtask},
		{"filter status:completed", TypeFilter},
		{"sort dueDate asc", TypeSort},
		{"page 2", TypePage},
		{"move 3f2a in-progress", TypeMove},
		{"toggle 3f2a", TypeToggle},
		{"delete 3f2a", TypeDelete},
		{"/refresh", TypeRefresh},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add Pay rent p:high due:2026-03-05 -- transfer before noon")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Title != "Pay rent" || a.Priority != model.PriorityHigh || a.Description != "transfer before noon" {
		t.Fatalf("unexpected add args: %+v", a)
	}
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)
	if !a.Due.Equal(want) {
		t.Fatalf("unexpected due date: %v", a.Due)
	}

	cmd, err = Parse("add Water plants")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Priority != model.PriorityMedium || !cmd.Add.Due.IsZero() {
		t.Fatalf("unexpected defaults: %+v", cmd.Add)
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	for _, in := range []string{
		"add p:high",
		"add thing p:urgent",
		"add thing due:tomorrow",
		"filter",
		"filter status:archived",
		"filter colour:red",
		"sort title",
		"sort dueDate sideways",
		"page 0",
		"move abc",
		"move abc archived",
		"toggle",
		"subtask abc",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseFilterAndSort(t *testing.T) {
	cmd, err := Parse("filter status:incomplete priority:all")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Filter.Status != pipeline.FilterIncomplete || cmd.Filter.Priority != pipeline.PriorityAll {
		t.Fatalf("unexpected filter: %+v", cmd.Filter)
	}

	cmd, err = Parse("filter reset")
	if err != nil || *cmd.Filter != (FilterArgs{}) {
		t.Fatalf("unexpected reset: %+v %v", cmd.Filter, err)
	}

	cmd, err = Parse("sort priority")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Sort.Field != pipeline.SortPriority || cmd.Sort.Order != "" {
		t.Fatalf("unexpected sort: %+v", cmd.Sort)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := Parse("  /  "); !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestResolveRef(t *testing.T) {
	ids := []string{"abc123", "abd456", "ab"}
	if id, err := ResolveRef("abc", ids); err != nil || id != "abc123" {
		t.Fatalf("unexpected prefix match: %q %v", id, err)
	}
	if id, err := ResolveRef("ab", ids); err != nil || id != "ab" {
		t.Fatalf("expected exact match to win: %q %v", id, err)
	}
	var ce *CommandError
	if _, err := ResolveRef("a", ids); !errors.As(err, &ce) || ce.Code != ErrCodeAmbiguousTask {
		t.Fatalf("expected ambiguous error, got %v", err)
	}
	if _, err := ResolveRef("zz", ids); !errors.As(err, &ce) || ce.Code != ErrCodeUnknownTask {
		t.Fatalf("expected unknown task error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/move abc done")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Move: func(a MoveArgs) (Result, error) {
			called = true
			if a.Ref != "abc" || a.Status != model.StatusDone {
				t.Fatalf("unexpected move args: %+v", a)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("refresh")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
