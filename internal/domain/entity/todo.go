package entity

import (
	"math"
	"time"
)

// Priority is the importance of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the stored lifecycle state of a todo.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// RecurringType is how often a recurring todo repeats. The empty value means not recurring.
type RecurringType string

const (
	RecurringDaily   RecurringType = "daily"
	RecurringWeekly  RecurringType = "weekly"
	RecurringMonthly RecurringType = "monthly"
)

// Valid reports whether r is one of the known recurrence types.
func (r RecurringType) Valid() bool {
	switch r {
	case RecurringDaily, RecurringWeekly, RecurringMonthly:
		return true
	}
	return false
}

const day = 24 * time.Hour

// Todo is a single task owned by one user.
//
// Status is the stored state. Overdue-ness drifts with the clock, so read paths
// use EffectiveStatus and IsOverdue instead of trusting a stored overdue value.
type Todo struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerID               string        `json:"ownerId" gorm:"column:owner_id;not null;index"`
	Title                 string        `json:"title" gorm:"not null"`
	Description           string        `json:"description"`
	Priority              Priority      `json:"priority" gorm:"not null"`
	Status                Status        `json:"status" gorm:"not null"`
	DueDate               *time.Time    `json:"dueDate"`
	CompletedAt           *time.Time    `json:"completedAt"`
	CompletedAfterOverdue bool          `json:"completedAfterOverdue" gorm:"not null"`
	Tags                  []string      `json:"tags" gorm:"serializer:json;type:jsonb;not null"`
	IsRecurring           bool          `json:"isRecurring" gorm:"not null"`
	RecurringType         RecurringType `json:"recurringType,omitempty"`
	CreatedAt             time.Time     `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt             time.Time     `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// TableName pins the gorm table name.
func (Todo) TableName() string {
	return "todos"
}

// ApplyTransitions runs the status rules that hold whenever a todo is persisted.
// previous is the stored status before the current change.
func (t *Todo) ApplyTransitions(previous Status, now time.Time) {
	if t.Status == StatusActive && t.pastDue(now) {
		t.Status = StatusOverdue
	}

	if t.Status == StatusCompleted && t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
		t.CompletedAfterOverdue = previous == StatusOverdue || t.pastDue(now)
	}

	if t.Status != StatusCompleted {
		t.CompletedAt = nil
		t.CompletedAfterOverdue = false
	}
}

// MarkCompleted moves the todo to completed. A todo that is already completed keeps its completedAt.
func (t *Todo) MarkCompleted(now time.Time) {
	previous := t.Status
	t.Status = StatusCompleted
	t.ApplyTransitions(previous, now)
}

// MarkActive reopens the todo; it lands on overdue right away when the due date has passed.
func (t *Todo) MarkActive(now time.Time) {
	previous := t.Status
	t.Status = StatusActive
	t.CompletedAt = nil
	t.CompletedAfterOverdue = false
	t.ApplyTransitions(previous, now)
}

// IsOverdue reports whether the todo is incomplete and its due date has passed.
func (t Todo) IsOverdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.pastDue(now)
}

// EffectiveStatus derives the status at now from the stored status and the due date.
func (t Todo) EffectiveStatus(now time.Time) Status {
	switch {
	case t.Status == StatusCompleted:
		return StatusCompleted
	case t.pastDue(now):
		return StatusOverdue
	default:
		return StatusActive
	}
}

// DaysUntilDue returns the whole days left until the due date, rounded up.
// It is nil when there is no due date or the todo is completed.
func (t Todo) DaysUntilDue(now time.Time) *int {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return nil
	}
	days := int(math.Ceil(float64(t.DueDate.Sub(now)) / float64(day)))
	return &days
}

// IsDueWithin reports whether the due date falls in [from, to).
func (t Todo) IsDueWithin(from, to time.Time) bool {
	return t.DueDate != nil && !t.DueDate.Before(from) && t.DueDate.Before(to)
}

func (t Todo) pastDue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate)
}
