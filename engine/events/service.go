package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/sethvargo/go-retry"

	"github.com/justice-digital/dps-smoketest/engine/core"
	"github.com/justice-digital/dps-smoketest/engine/probe"
	"github.com/justice-digital/dps-smoketest/pkg/logger"
)

const purgeWaitBudget = 30 * time.Second

// Service reads the domain-event queue the smoke tests subscribe to.
type Service struct {
	client   Client
	queueURL string
}

func NewService(client Client, queueURL string) *Service {
	return &Service{client: client, queueURL: queueURL}
}

// envelope is the SNS notification wrapper SQS delivers.
type envelope struct {
	Message           string `json:"Message"`
	MessageID         string `json:"MessageId"`
	MessageAttributes struct {
		EventType struct {
			Value string `json:"Value"`
		} `json:"eventType"`
	} `json:"MessageAttributes"`
}

// domainEvent is the slice of the inner message the tests match on.
type domainEvent struct {
	AdditionalInformation struct {
		NomsNumber string `json:"nomsNumber"`
	} `json:"additionalInformation"`
}

// Depth returns the approximate visible and in-flight message counts.
func (s *Service) Depth(ctx context.Context) (visible, inFlight int, err error) {
	out, err := s.client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(s.queueURL),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeNameApproximateNumberOfMessages,
			types.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
		},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read queue attributes: %w", err)
	}
	visible, _ = strconv.Atoi(out.Attributes[string(types.QueueAttributeNameApproximateNumberOfMessages)])
	inFlight, _ = strconv.Atoi(out.Attributes[string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible)])
	return visible, inFlight, nil
}

// Purge empties the queue and waits until the approximate depth reads zero,
// so a run only ever observes events it triggered itself.
func (s *Service) Purge(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if _, err := s.client.PurgeQueue(ctx, &sqs.PurgeQueueInput{QueueUrl: aws.String(s.queueURL)}); err != nil {
		return fmt.Errorf("failed to purge queue: %w", err)
	}
	backoff := retry.WithMaxDuration(purgeWaitBudget, retry.NewConstant(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		visible, inFlight, err := s.Depth(ctx)
		if err != nil {
			return err
		}
		if visible+inFlight > 0 {
			log.Debug("waiting for queue to drain", "visible", visible, "in_flight", inFlight)
			return retry.RetryableError(fmt.Errorf("queue not empty: %d messages", visible+inFlight))
		}
		return nil
	})
}

// PurgeCheck wraps Purge as a probe check so a workflow can run it as its
// first stage.
func (s *Service) PurgeCheck() probe.CheckFunc {
	return func(ctx context.Context) core.Outcome {
		if err := s.Purge(ctx); err != nil {
			return core.Fail(fmt.Sprintf("Purge queue failed due to %s", err.Error()))
		}
		return core.Incomplete("Purged the domain event queue")
	}
}

// CheckEventProduced drains the queue looking for a domain event of the
// given type for the given offender. Every received message is deleted
// immediately, matching or not, since a test run owns the whole queue. A
// match yields the caller's final progress; an empty queue yields INCOMPLETE
// so the poller tries again.
func (s *Service) CheckEventProduced(eventType, nomsNumber string, final core.Progress) probe.CheckFunc {
	return func(ctx context.Context) core.Outcome {
		for {
			out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(s.queueURL),
				MaxNumberOfMessages: 1,
			})
			if err != nil {
				return core.Fail(fmt.Sprintf("Check for event %s failed due to %s", eventType, err.Error()))
			}
			if len(out.Messages) == 0 {
				return core.Incomplete(fmt.Sprintf("Still waiting for event %s for offender %s", eventType, nomsNumber))
			}
			message := out.Messages[0]
			if _, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(s.queueURL),
				ReceiptHandle: message.ReceiptHandle,
			}); err != nil {
				return core.Fail(fmt.Sprintf("Check for event %s failed due to %s", eventType, err.Error()))
			}
			matched, err := matches(aws.ToString(message.Body), eventType, nomsNumber)
			if err != nil {
				return core.Fail(fmt.Sprintf("Check for event %s failed due to %s", eventType, err.Error()))
			}
			if matched {
				return core.Outcome{
					Description: fmt.Sprintf("Received event %s for offender %s", eventType, nomsNumber),
					Progress:    final,
				}
			}
			logger.FromContext(ctx).Debug("skipping unmatched event", "event_type", eventType)
		}
	}
}

func matches(body, eventType, nomsNumber string) (bool, error) {
	var outer envelope
	if err := json.Unmarshal([]byte(body), &outer); err != nil {
		return false, fmt.Errorf("failed to decode event envelope: %w", err)
	}
	if outer.MessageAttributes.EventType.Value != eventType {
		return false, nil
	}
	var inner domainEvent
	if err := json.Unmarshal([]byte(outer.Message), &inner); err != nil {
		return false, fmt.Errorf("failed to decode domain event: %w", err)
	}
	return inner.AdditionalInformation.NomsNumber == nomsNumber, nil
}
