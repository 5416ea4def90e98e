// Package replay re-publishes dead-lettered loan events onto the event bus
// with a bumped retry counter so the upload workflow gets another pass.
package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// EventBridgeAPI is the subset of the EventBridge client the replayer uses.
type EventBridgeAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Replayer turns dead-lettered SQS records back into bus events.
type Replayer struct {
	client   EventBridgeAPI
	eventBus string
	logger   zerolog.Logger
}

// New returns a Replayer publishing to the named bus.
func New(client EventBridgeAPI, eventBus string, logger zerolog.Logger) *Replayer {
	return &Replayer{client: client, eventBus: eventBus, logger: logger}
}

// envelope is the original EventBridge event as it landed in the queue.
type envelope struct {
	DetailType string         `json:"detail-type"`
	Source     string         `json:"source"`
	Detail     map[string]any `json:"detail"`
}

// Handle replays every record in the batch. A record missing its envelope
// fields is a hard error: poison messages should fail loudly, not vanish.
func (r *Replayer) Handle(ctx context.Context, event events.SQSEvent) error {
	if len(event.Records) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(event.Records))
	for _, record := range event.Records {
		entry, err := r.toEntry(record)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	out, err := r.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("replaying events: %w", err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("replaying events: %d entries failed", out.FailedEntryCount)
	}

	r.logger.Info().Int("replayed", len(entries)).Msg("events replayed onto the bus")
	return nil
}

func (r *Replayer) toEntry(record events.SQSMessage) (types.PutEventsRequestEntry, error) {
	var env envelope
	if err := json.Unmarshal([]byte(record.Body), &env); err != nil {
		return types.PutEventsRequestEntry{}, fmt.Errorf("parsing dead-lettered event body: %w", err)
	}
	if env.DetailType == "" {
		return types.PutEventsRequestEntry{}, errors.New("event missing detail-type")
	}
	if env.Source == "" {
		return types.PutEventsRequestEntry{}, errors.New("event missing source")
	}
	if env.Detail == nil {
		return types.PutEventsRequestEntry{}, errors.New("event missing detail")
	}

	retries := 0
	if v, ok := env.Detail["retries"].(float64); ok {
		retries = int(v)
	}
	env.Detail["retries"] = retries + 1

	detail, err := json.Marshal(env.Detail)
	if err != nil {
		return types.PutEventsRequestEntry{}, fmt.Errorf("marshalling replayed detail: %w", err)
	}

	return types.PutEventsRequestEntry{
		Detail:       aws.String(string(detail)),
		DetailType:   aws.String(env.DetailType),
		Source:       aws.String(env.Source),
		EventBusName: aws.String(r.eventBus),
	}, nil
}
