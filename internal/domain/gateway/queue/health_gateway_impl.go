package queue

import (
	"context"

	"todo-api/internal/domain/model"
	"todo-api/pkg/sqs"
)

type QueueHealthGateway struct {
	sender    *sqs.Sender
	queueName string
}

var _ HealthGateway = (*QueueHealthGateway)(nil)

// NewQueueHealthGateway checks queueName through sender. A nil sender means events are disabled.
func NewQueueHealthGateway(sender *sqs.Sender, queueName string) *QueueHealthGateway {
	return &QueueHealthGateway{sender: sender, queueName: queueName}
}

func (gateway *QueueHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if gateway.sender == nil {
		return model.ComponentHealthStatus{
			Status: model.StatusUnknown,
			Details: map[string]string{
				"message": "Event publishing disabled",
			},
		}
	}

	if err := gateway.sender.Ping(ctx, gateway.queueName); err != nil {
		return model.DownComponent(err)
	}
	return model.UpComponent(map[string]string{"queue": gateway.queueName})
}
