// Package dlq implements the dead-letter-queue deduplication job: repeated
// failure notifications for the same loan are collapsed down to the most
// recent one, which stays in the queue as the still-actionable failure.
package dlq

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// batchSize is the SQS cap on both receives and batch deletes.
const batchSize = 10

// SQSAPI is the subset of the SQS client the job uses.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
}

// Cleaner drains the failure queue and deletes redundant entries.
type Cleaner struct {
	client    SQSAPI
	queueName string
	logger    zerolog.Logger
}

// NewCleaner returns a Cleaner for the named queue.
func NewCleaner(client SQSAPI, queueName string, logger zerolog.Logger) *Cleaner {
	return &Cleaner{client: client, queueName: queueName, logger: logger}
}

// Run performs one dedup pass: drain the queue, group by loan id, keep the
// newest entry per loan and delete the rest. Nothing is deleted until the
// drain completes, so a crash mid-pass loses no messages.
func (c *Cleaner) Run(ctx context.Context) error {
	urlOut, err := c.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(c.queueName),
	})
	if err != nil {
		return fmt.Errorf("resolving queue url for %s: %w", c.queueName, err)
	}
	queueURL := aws.ToString(urlOut.QueueUrl)
	if queueURL == "" {
		return fmt.Errorf("no queue url found for queue %s", c.queueName)
	}

	messages, err := c.drain(ctx, queueURL)
	if err != nil {
		return err
	}

	duplicates := DuplicateMessages(messages, c.logger)
	if err := c.deleteBatched(ctx, queueURL, duplicates); err != nil {
		return err
	}

	c.logger.Info().Int("removed", len(duplicates)).Msg("duplicate errors removed from the queue")
	return nil
}

// drain receives batches until an empty batch is observed. Received messages
// stay invisible to other consumers until the visibility timeout elapses; an
// overlapping run inside that window sees a smaller set.
func (c *Cleaner) drain(ctx context.Context, queueURL string) ([]types.Message, error) {
	var all []types.Message
	for {
		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: batchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("receiving messages: %w", err)
		}
		if len(out.Messages) == 0 {
			return all, nil
		}
		all = append(all, out.Messages...)
	}
}

func (c *Cleaner) deleteBatched(ctx context.Context, queueURL string, messages []types.Message) error {
	for start := 0; start < len(messages); start += batchSize {
		end := start + batchSize
		if end > len(messages) {
			end = len(messages)
		}
		entries := make([]types.DeleteMessageBatchRequestEntry, 0, end-start)
		for _, m := range messages[start:end] {
			entries = append(entries, types.DeleteMessageBatchRequestEntry{
				Id:            m.MessageId,
				ReceiptHandle: m.ReceiptHandle,
			})
		}
		if _, err := c.client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
			QueueUrl: aws.String(queueURL),
			Entries:  entries,
		}); err != nil {
			return fmt.Errorf("deleting message batch: %w", err)
		}
	}
	return nil
}

type failureEntry struct {
	messageID  string
	loanID     string
	receivedAt time.Time
}

type failureEnvelope struct {
	Time   time.Time `json:"time"`
	Detail struct {
		Loan struct {
			ID string `json:"id"`
		} `json:"loan"`
	} `json:"detail"`
}

// DuplicateMessages returns the messages that are redundant: for each loan id
// every entry except the most recently received one. Messages whose bodies do
// not carry a loan id and receipt time are logged and skipped, never deleted.
func DuplicateMessages(messages []types.Message, logger zerolog.Logger) []types.Message {
	var entries []failureEntry
	for _, m := range messages {
		if m.MessageId == nil || m.Body == nil || m.ReceiptHandle == nil {
			logger.Error().Msg("message did not have expected payload to deduplicate")
			continue
		}
		var envelope failureEnvelope
		if err := json.Unmarshal([]byte(*m.Body), &envelope); err != nil {
			logger.Error().Err(err).Str("messageId", *m.MessageId).Msg("message body could not be parsed for deduplication")
			continue
		}
		if envelope.Detail.Loan.ID == "" || envelope.Time.IsZero() {
			logger.Error().Str("messageId", *m.MessageId).Msg("message body did not have required data needed to deduplicate")
			continue
		}
		entries = append(entries, failureEntry{
			messageID:  *m.MessageId,
			loanID:     envelope.Detail.Loan.ID,
			receivedAt: envelope.Time,
		})
	}

	// Newest first within each loan group; the head of each group survives.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].receivedAt.After(entries[j].receivedAt)
	})

	seen := make(map[string]bool)
	redundant := make(map[string]bool)
	for _, e := range entries {
		if seen[e.loanID] {
			redundant[e.messageID] = true
			continue
		}
		seen[e.loanID] = true
	}

	var out []types.Message
	for _, m := range messages {
		if m.MessageId != nil && redundant[*m.MessageId] {
			out = append(out, m)
		}
	}
	return out
}
