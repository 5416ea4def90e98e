package replay_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/replay"
)

type fakeBus struct {
	inputs []*eventbridge.PutEventsInput
	out    *eventbridge.PutEventsOutput
}

func (f *fakeBus) PutEvents(_ context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.out != nil {
		return f.out, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func sqsEvent(bodies ...string) events.SQSEvent {
	var event events.SQSEvent
	for _, b := range bodies {
		event.Records = append(event.Records, events.SQSMessage{Body: b})
	}
	return event
}

func TestHandleBumpsRetriesAndReplays(t *testing.T) {
	bus := &fakeBus{}
	r := replay.New(bus, "cp-events", zerolog.Nop())

	body := `{"detail-type":"Loan","source":"com.elliemae.encompass","detail":{"loan":{"id":"loan-1"},"retries":2}}`
	if err := r.Handle(context.Background(), sqsEvent(body)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(bus.inputs) != 1 || len(bus.inputs[0].Entries) != 1 {
		t.Fatalf("PutEvents inputs = %+v, want one call with one entry", bus.inputs)
	}
	entry := bus.inputs[0].Entries[0]
	if aws.ToString(entry.EventBusName) != "cp-events" {
		t.Errorf("EventBusName = %q, want cp-events", aws.ToString(entry.EventBusName))
	}
	if aws.ToString(entry.DetailType) != "Loan" {
		t.Errorf("DetailType = %q, want Loan", aws.ToString(entry.DetailType))
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail); err != nil {
		t.Fatalf("parsing replayed detail: %v", err)
	}
	if got, ok := detail["retries"].(float64); !ok || int(got) != 3 {
		t.Errorf("retries = %v, want 3", detail["retries"])
	}
}

func TestHandleFirstRetry(t *testing.T) {
	bus := &fakeBus{}
	r := replay.New(bus, "cp-events", zerolog.Nop())

	body := `{"detail-type":"Loan","source":"com.elliemae.encompass","detail":{"loan":{"id":"loan-1"}}}`
	if err := r.Handle(context.Background(), sqsEvent(body)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(aws.ToString(bus.inputs[0].Entries[0].Detail)), &detail); err != nil {
		t.Fatalf("parsing replayed detail: %v", err)
	}
	if got, ok := detail["retries"].(float64); !ok || int(got) != 1 {
		t.Errorf("retries = %v, want 1 on first replay", detail["retries"])
	}
}

func TestHandleInvalidEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "missing detail-type", body: `{"source":"s","detail":{}}`, wantMsg: "detail-type"},
		{name: "missing source", body: `{"detail-type":"Loan","detail":{}}`, wantMsg: "source"},
		{name: "missing detail", body: `{"detail-type":"Loan","source":"s"}`, wantMsg: "detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{}
			r := replay.New(bus, "cp-events", zerolog.Nop())

			err := r.Handle(context.Background(), sqsEvent(tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Handle() error = %v, want mention of %s", err, tt.wantMsg)
			}
			if len(bus.inputs) != 0 {
				t.Error("PutEvents was called despite invalid envelope")
			}
		})
	}
}

func TestHandleEmptyBatch(t *testing.T) {
	bus := &fakeBus{}
	r := replay.New(bus, "cp-events", zerolog.Nop())

	if err := r.Handle(context.Background(), events.SQSEvent{}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(bus.inputs) != 0 {
		t.Error("PutEvents was called for an empty batch")
	}
}
