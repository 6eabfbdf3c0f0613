package model

import (
	"time"

	"todo-api/internal/domain/entity"
)

// TodoEventType names a todo lifecycle change.
type TodoEventType string

const (
	TodoCreated   TodoEventType = "todo.created"
	TodoUpdated   TodoEventType = "todo.updated"
	TodoCompleted TodoEventType = "todo.completed"
	TodoReopened  TodoEventType = "todo.reopened"
	TodoDeleted   TodoEventType = "todo.deleted"
)

// TodoEvent is published after a write has been committed.
type TodoEvent struct {
	Type       TodoEventType `json:"type"`
	TodoID     string        `json:"todoId"`
	OwnerID    string        `json:"ownerId"`
	Status     entity.Status `json:"status,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
	Todo       *entity.Todo  `json:"todo,omitempty"`
}

// NewTodoEvent builds an event carrying a snapshot of todo. Deletions carry no snapshot.
func NewTodoEvent(eventType TodoEventType, todo entity.Todo, occurredAt time.Time) TodoEvent {
	event := TodoEvent{
		Type:       eventType,
		TodoID:     todo.ID,
		OwnerID:    todo.OwnerID,
		Status:     todo.Status,
		OccurredAt: occurredAt,
	}
	if eventType != TodoDeleted {
		snapshot := todo
		event.Todo = &snapshot
	}
	return event
}
