// Package commands parses and dispatches the board's command palette.
package commands

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/pipeline"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeSubtask Type = "subtask"
	TypeFilter  Type = "filter"
	TypeSort    Type = "sort"
	TypePage    Type = "page"
	TypeMove    Type = "move"
	TypeToggle  Type = "toggle"
	TypeDelete  Type = "delete"
	TypeRefresh Type = "refresh"
)

// Types lists palette commands in help order.
var Types = []Type{TypeAdd, TypeSubtask, TypeFilter, TypeSort, TypePage, TypeMove, TypeToggle, TypeDelete, TypeRefresh}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeUnknownTask     ErrorCode = "unknown_task"
	ErrCodeAmbiguousTask   ErrorCode = "ambiguous_task"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const dateLayout = "2006-01-02"

type AddArgs struct {
	Title       string
	Description string
	Priority    model.Priority
	Due         time.Time
}

type SubtaskArgs struct {
	Ref   string
	Title string
}

// FilterArgs with both fields empty resets the filter.
type FilterArgs struct {
	Status   pipeline.FilterStatus
	Priority model.Priority
}

// SortArgs leaves the order unchanged when Order is empty.
type SortArgs struct {
	Field pipeline.SortField
	Order pipeline.SortOrder
}

type PageArgs struct {
	Page int
}

type MoveArgs struct {
	Ref    string
	Status model.Status
}

type RefArgs struct {
	Ref string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Subtask *SubtaskArgs
	Filter  *FilterArgs
	Sort    *SortArgs
	Page    *PageArgs
	Move    *MoveArgs
	Ref     *RefArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, raw)
	case TypeSubtask:
		return parseSubtask(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	case TypePage:
		return parsePage(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeToggle, TypeDelete:
		if len(args) != 1 {
			return Command{}, invalid("%s requires exactly one task", head)
		}
		return Command{Type: Type(head), Raw: input, Ref: &RefArgs{Ref: args[0]}}, nil
	case TypeRefresh:
		return Command{Type: TypeRefresh, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// parseAdd reads "add <title words> [p:<priority>] [due:<date>] [-- description]".
func parseAdd(input, raw string) (Command, error) {
	body := strings.TrimSpace(raw[len(TypeAdd):])
	out := AddArgs{Priority: model.PriorityMedium}
	if head, desc, ok := strings.Cut(body, "--"); ok {
		body = head
		out.Description = strings.TrimSpace(desc)
	}

	title := make([]string, 0)
	for _, word := range strings.Fields(body) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(lower, "p:"):
			p, err := model.ParsePriority(word[2:])
			if err != nil {
				return Command{}, invalid("unknown priority %q", word[2:])
			}
			out.Priority = p
		case strings.HasPrefix(lower, "due:"):
			due, err := time.ParseInLocation(dateLayout, word[4:], time.Local)
			if err != nil {
				return Command{}, invalid("due date must be YYYY-MM-DD, got %q", word[4:])
			}
			out.Due = due
		default:
			title = append(title, word)
		}
	}
	out.Title = strings.Join(title, " ")
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: input, Add: &out}, nil
}

func parseSubtask(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("subtask requires a task and a title")
	}
	return Command{Type: TypeSubtask, Raw: raw, Subtask: &SubtaskArgs{Ref: args[0], Title: strings.Join(args[1:], " ")}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	var out FilterArgs
	if len(args) == 1 && strings.EqualFold(args[0], "reset") {
		return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
	}
	if len(args) == 0 {
		return Command{}, invalid("filter requires status:<all|completed|incomplete>, priority:<all|low|medium|high> or reset")
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok {
			return Command{}, invalid("filter argument %q must be key:value", arg)
		}
		switch strings.ToLower(key) {
		case "status":
			s, err := pipeline.ParseFilterStatus(value)
			if err != nil {
				return Command{}, invalid("unknown status filter %q", value)
			}
			out.Status = s
		case "priority":
			p, err := pipeline.ParsePriorityFilter(value)
			if err != nil {
				return Command{}, invalid("unknown priority filter %q", value)
			}
			out.Priority = p
		default:
			return Command{}, invalid("unknown filter key %q", key)
		}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalid("sort requires a field and an optional order")
	}
	field, err := pipeline.ParseSortField(args[0])
	if err != nil {
		return Command{}, invalid("unknown sort field %q", args[0])
	}
	out := SortArgs{Field: field}
	if len(args) == 2 {
		order, err := pipeline.ParseSortOrder(args[1])
		if err != nil {
			return Command{}, invalid("sort order must be asc or desc, got %q", args[1])
		}
		out.Order = order
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &out}, nil
}

func parsePage(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("page requires a number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return Command{}, invalid("page must be a positive number, got %q", args[0])
	}
	return Command{Type: TypePage, Raw: raw, Page: &PageArgs{Page: n}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("move requires a task and a status")
	}
	status, err := model.ParseStatus(args[1])
	if err != nil {
		return Command{}, invalid("unknown status %q", args[1])
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Ref: args[0], Status: status}}, nil
}

// ResolveRef matches ref against ids by exact id first, then by unique prefix.
func ResolveRef(ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &CommandError{Code: ErrCodeUnknownTask, Message: "task reference is empty"}
	}
	if slices.Contains(ids, ref) {
		return ref, nil
	}
	match := ""
	for _, id := range ids {
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", &CommandError{Code: ErrCodeAmbiguousTask, Message: fmt.Sprintf("%q matches more than one task", ref)}
			}
			match = id
		}
	}
	if match == "" {
		return "", &CommandError{Code: ErrCodeUnknownTask, Message: fmt.Sprintf("no task matches %q", ref)}
	}
	return match, nil
}
