package aws

import (
	"context"

	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/model"
	"todo-api/pkg/sqs"
)

const eventTypeAttribute = "eventType"

// SQSEventAdapter adapts pkg/sqs.Sender to the domain TodoEventSender.
type SQSEventAdapter struct {
	sender    *sqs.Sender
	queueName string
}

var _ queue.TodoEventSender = (*SQSEventAdapter)(nil)

// NewSQSEventAdapter sends every event to queueName.
func NewSQSEventAdapter(sender *sqs.Sender, queueName string) *SQSEventAdapter {
	return &SQSEventAdapter{sender: sender, queueName: queueName}
}

func (adapter *SQSEventAdapter) Send(ctx context.Context, event model.TodoEvent) error {
	return adapter.sender.SendMessage(ctx, adapter.queueName, event, map[string]string{
		eventTypeAttribute: string(event.Type),
	})
}
