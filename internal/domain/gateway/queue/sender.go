package queue

import (
	"context"

	"todo-api/internal/domain/model"
)

// TodoEventSender publishes todo lifecycle events.
type TodoEventSender interface {
	Send(ctx context.Context, event model.TodoEvent) error
}

// NoopTodoEventSender drops every event. Used when event publishing is disabled.
type NoopTodoEventSender struct{}

var _ TodoEventSender = NoopTodoEventSender{}

func (NoopTodoEventSender) Send(context.Context, model.TodoEvent) error {
	return nil
}
