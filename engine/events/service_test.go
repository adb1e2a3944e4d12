package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/events"
)

const queueURL = "http://localhost:4566/000000000000/domain-events"

type fakeClient struct {
	messages   []types.Message
	deleted    []string
	purged     int
	visible    int
	receiveErr error
}

func (f *fakeClient) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	if len(f.messages) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	next := f.messages[0]
	f.messages = f.messages[1:]
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{next}}, nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeClient) PurgeQueue(_ context.Context, _ *sqs.PurgeQueueInput, _ ...func(*sqs.Options)) (*sqs.PurgeQueueOutput, error) {
	f.purged++
	f.messages = nil
	f.visible = 0
	return &sqs.PurgeQueueOutput{}, nil
}

func (f *fakeClient) GetQueueAttributes(_ context.Context, _ *sqs.GetQueueAttributesInput, _ ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error) {
	return &sqs.GetQueueAttributesOutput{Attributes: map[string]string{
		string(types.QueueAttributeNameApproximateNumberOfMessages):           "0",
		string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible): "0",
	}}, nil
}

func releasedMessage(handle, nomsNumber string) types.Message {
	body := `{"MessageId":"msg-1","MessageAttributes":{"eventType":{"Value":"prison-offender-events.prisoner.released"}},` +
		`"Message":"{\"additionalInformation\":{\"nomsNumber\":\"` + nomsNumber + `\"}}"}`
	return types.Message{Body: aws.String(body), ReceiptHandle: aws.String(handle)}
}

func TestPurge(t *testing.T) {
	t.Run("Should purge and wait until the queue is empty", func(t *testing.T) {
		client := &fakeClient{}
		svc := events.NewService(client, queueURL)
		require.NoError(t, svc.Purge(context.Background()))
		assert.Equal(t, 1, client.purged)
	})

	t.Run("Should report the purge through a check", func(t *testing.T) {
		svc := events.NewService(&fakeClient{}, queueURL)
		outcome := svc.PurgeCheck()(context.Background())
		assert.Equal(t, core.Incomplete("Purged the domain event queue"), outcome)
	})
}

func TestCheckEventProduced(t *testing.T) {
	const eventType = "prison-offender-events.prisoner.released"

	t.Run("Should report the matching event with the final progress", func(t *testing.T) {
		client := &fakeClient{messages: []types.Message{releasedMessage("h1", "A7742DY")}}
		svc := events.NewService(client, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressSuccess, outcome.Progress)
		assert.Equal(t, "Received event prison-offender-events.prisoner.released for offender A7742DY", outcome.Description)
		assert.Equal(t, []string{"h1"}, client.deleted)
	})

	t.Run("Should keep waiting while the queue is empty", func(t *testing.T) {
		svc := events.NewService(&fakeClient{}, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressIncomplete, outcome.Progress)
	})

	t.Run("Should delete and skip events for other offenders", func(t *testing.T) {
		client := &fakeClient{messages: []types.Message{
			releasedMessage("h1", "A9999ZZ"),
			releasedMessage("h2", "A7742DY"),
		}}
		svc := events.NewService(client, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressSuccess, outcome.Progress)
		assert.Equal(t, []string{"h1", "h2"}, client.deleted)
	})

	t.Run("Should delete and skip events of other types", func(t *testing.T) {
		other := releasedMessage("h1", "A7742DY")
		other.Body = aws.String(`{"MessageId":"msg-2","MessageAttributes":{"eventType":{"Value":"prison-offender-events.prisoner.recalled"}},"Message":"{}"}`)
		client := &fakeClient{messages: []types.Message{other}}
		svc := events.NewService(client, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressIncomplete, outcome.Progress)
		assert.Equal(t, []string{"h1"}, client.deleted)
	})

	t.Run("Should fail when the queue can not be read", func(t *testing.T) {
		client := &fakeClient{receiveErr: errors.New("access denied")}
		svc := events.NewService(client, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressFail, outcome.Progress)
		assert.Contains(t, outcome.Description, "access denied")
	})

	t.Run("Should fail on a malformed envelope", func(t *testing.T) {
		client := &fakeClient{messages: []types.Message{{
			Body:          aws.String("not json"),
			ReceiptHandle: aws.String("h1"),
		}}}
		svc := events.NewService(client, queueURL)
		outcome := svc.CheckEventProduced(eventType, "A7742DY", core.ProgressSuccess)(context.Background())
		assert.Equal(t, core.ProgressFail, outcome.Progress)
		assert.Equal(t, []string{"h1"}, client.deleted)
	})
}
