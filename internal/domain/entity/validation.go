package entity

import (
	"strings"
	"unicode/utf8"

	"todo-api/pkg/msg"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxTagLength         = 20
)

// FieldError is a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated field of one todo.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := e.Messages()
	if len(messages) == 0 {
		return msg.GetMessage("todo.error.validation")
	}
	return msg.GetMessage("todo.error.validation") + ": " + strings.Join(messages, "; ")
}

// Add records a violation on field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Messages lists the violation messages in the order they were found.
func (e *ValidationError) Messages() []string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}
	return messages
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns e as an error when it holds violations, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Normalize trims text fields, drops blank tags and clears the recurrence type of non recurring todos.
func (t *Todo) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)

	tags := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	t.Tags = tags

	if !t.IsRecurring {
		t.RecurringType = ""
	}
}

// Validate checks every field constraint and reports all violations at once.
func (t *Todo) Validate() error {
	verr := &ValidationError{}

	switch {
	case strings.TrimSpace(t.Title) == "":
		verr.Add("title", msg.GetMessage("todo.validation.title-required"))
	case utf8.RuneCountInString(t.Title) > MaxTitleLength:
		verr.Add("title", msg.GetMessage("todo.validation.title-too-long", MaxTitleLength))
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		verr.Add("description", msg.GetMessage("todo.validation.description-too-long", MaxDescriptionLength))
	}

	for _, tag := range t.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			verr.Add("tags", msg.GetMessage("todo.validation.tag-too-long", MaxTagLength))
			break
		}
	}

	if !t.Priority.Valid() {
		verr.Add("priority", msg.GetMessage("todo.validation.priority-invalid"))
	}
	if !t.Status.Valid() {
		verr.Add("status", msg.GetMessage("todo.validation.status-invalid"))
	}

	switch {
	case t.RecurringType != "" && !t.RecurringType.Valid():
		verr.Add("recurringType", msg.GetMessage("todo.validation.recurring-type-invalid"))
	case t.IsRecurring && t.RecurringType == "":
		verr.Add("recurringType", msg.GetMessage("todo.validation.recurring-type-required"))
	}

	return verr.OrNil()
}
