package model

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const minTitleLength = 3

type TaskForm struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	DueDate     time.Time `json:"dueDate"`
}

// FormErrors maps a form field name to its message.
type FormErrors map[string]string

func (e FormErrors) HasErrors() bool {
	return len(e) > 0
}

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "model: invalid task form: " + strings.Join(parts, "; ")
}

// ValidateForm checks a create/edit form. The due date may not fall on a day
// before now's day, compared in now's location.
func ValidateForm(form TaskForm, now time.Time) FormErrors {
	errs := FormErrors{}

	title := strings.TrimSpace(form.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(title) < minTitleLength:
		errs["title"] = "Title must be at least 3 characters long"
	}

	if strings.TrimSpace(form.Description) == "" {
		errs["description"] = "Description is required"
	}

	switch {
	case form.Priority == "":
		errs["priority"] = "Priority is required"
	case !form.Priority.IsValid():
		errs["priority"] = "Priority must be low, medium or high"
	}

	if form.DueDate.IsZero() {
		errs["dueDate"] = "Due date is required"
	} else if StartOfDay(form.DueDate.In(now.Location())).Before(StartOfDay(now)) {
		errs["dueDate"] = "Due date cannot be in the past"
	}

	return errs
}
