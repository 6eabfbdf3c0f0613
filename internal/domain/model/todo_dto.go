package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"todo-api/internal/domain/entity"
)

const dateOnlyLayout = "2006-01-02"

var dueDateLayouts = []string{
	dateOnlyLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// DueDate parses dueDate from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
//
// Present is true whenever the key appears in the body, so an update can tell
// "leave untouched" (absent) from "clear" (null or "").
type DueDate struct {
	Present bool
	Invalid bool
	t       *time.Time
}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	d.Present = true
	d.Invalid = false
	d.t = nil

	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate: %w", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}

	parsed, ok := ParseDueDate(*raw)
	if !ok {
		d.Invalid = true
		return nil
	}
	d.t = &parsed
	return nil
}

// Ptr returns the parsed date, nil when absent or cleared.
func (d DueDate) Ptr() *time.Time { return d.t }

// DueDateOf builds a present DueDate, mostly for tests and internal callers.
func DueDateOf(t *time.Time) DueDate {
	return DueDate{Present: true, t: t}
}

// OptionalText is a string field of a partial update. Present is true whenever the key
// appears in the body; null decodes to the empty string.
type OptionalText struct {
	Present bool
	Value   string
}

func (o *OptionalText) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Present = true
	o.Value = ""
	if raw != nil {
		o.Value = *raw
	}
	return nil
}

// TextOf builds a present OptionalText.
func TextOf(value string) OptionalText {
	return OptionalText{Present: true, Value: value}
}

// ParseDueDate accepts the layouts the API documents for due dates.
func ParseDueDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if layout == dateOnlyLayout {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return parsed, true
	}
	return time.Time{}, false
}

// CreateTodoDTO is the body of a create request.
type CreateTodoDTO struct {
	Title         string               `json:"title" example:"Buy milk"`
	Description   string               `json:"description" example:"Two litres"`
	Priority      entity.Priority      `json:"priority" enums:"low,medium,high" example:"medium"`
	DueDate       DueDate              `json:"dueDate" swaggertype:"string" example:"2030-01-31"`
	Tags          []string             `json:"tags"`
	IsRecurring   bool                 `json:"isRecurring"`
	RecurringType entity.RecurringType `json:"recurringType" enums:"daily,weekly,monthly"`
}

// UpdateTodoDTO is a partial update: nil or absent fields are left untouched.
type UpdateTodoDTO struct {
	Title         *string               `json:"title"`
	Description   OptionalText          `json:"description" swaggertype:"string"`
	Priority      *entity.Priority      `json:"priority" enums:"low,medium,high"`
	Status        *entity.Status        `json:"status" enums:"active,completed,overdue"`
	DueDate       DueDate               `json:"dueDate" swaggertype:"string" example:"2030-01-31"`
	Tags          *[]string             `json:"tags"`
	IsRecurring   *bool                 `json:"isRecurring"`
	RecurringType *entity.RecurringType `json:"recurringType" enums:"daily,weekly,monthly"`
}

// TodoResponse is a todo as returned by the API, with the fields derived at read time.
type TodoResponse struct {
	entity.Todo
	EffectiveStatus entity.Status `json:"effectiveStatus"`
	Overdue         bool          `json:"isOverdue"`
	DaysUntilDue    *int          `json:"daysUntilDue"`
}

// NewTodoResponse derives the read time fields of todo at now.
func NewTodoResponse(todo entity.Todo, now time.Time) TodoResponse {
	if todo.Tags == nil {
		todo.Tags = []string{}
	}
	return TodoResponse{
		Todo:            todo,
		EffectiveStatus: todo.EffectiveStatus(now),
		Overdue:         todo.IsOverdue(now),
		DaysUntilDue:    todo.DaysUntilDue(now),
	}
}

// NewTodoResponses maps todos with NewTodoResponse.
func NewTodoResponses(todos []entity.Todo, now time.Time) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, NewTodoResponse(todo, now))
	}
	return responses
}
