package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSQSClient struct {
	mock.Mock
}

func (m *mockSQSClient) GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	args := m.Called(ctx, aws.ToString(params.QueueName))
	output, _ := args.Get(0).(*sqs.GetQueueUrlOutput)
	return output, args.Error(1)
}

func (m *mockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	output, _ := args.Get(0).(*sqs.SendMessageOutput)
	return output, args.Error(1)
}

func TestSendMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := new(mockSQSClient)
	client.On("GetQueueUrl", ctx, "events").
		Return(&sqs.GetQueueUrlOutput{QueueUrl: aws.String("http://localhost/000/events")}, nil).
		Once()
	client.On("SendMessage", ctx, mock.MatchedBy(func(input *sqs.SendMessageInput) bool {
		var body map[string]string
		if err := json.Unmarshal([]byte(aws.ToString(input.MessageBody)), &body); err != nil {
			return false
		}
		return aws.ToString(input.QueueUrl) == "http://localhost/000/events" &&
			body["type"] == "todo.created" &&
			aws.ToString(input.MessageAttributes["eventType"].StringValue) == "todo.created"
	})).Return(&sqs.SendMessageOutput{}, nil).Twice()

	sender := NewSender(client)
	body := map[string]string{"type": "todo.created"}
	attributes := map[string]string{"eventType": "todo.created"}

	require.NoError(t, sender.SendMessage(ctx, "events", body, attributes))
	require.NoError(t, sender.SendMessage(ctx, "events", body, attributes))

	client.AssertExpectations(t)
}

func TestSendMessageUnknownQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := new(mockSQSClient)
	client.On("GetQueueUrl", ctx, "missing").Return(nil, errors.New("queue does not exist"))

	sender := NewSender(client)
	err := sender.SendMessage(ctx, "missing", map[string]string{}, nil)

	assert.ErrorContains(t, err, "missing")
	client.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	assert.Error(t, sender.Ping(ctx, "missing"))
}
