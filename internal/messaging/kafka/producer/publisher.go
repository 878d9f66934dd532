package producer

import (
	"context"

	"timeclock/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// send writes one staged event, keyed by aggregate id so all events about the
// same user land on one partition. The event type travels in a header so
// consumers can route without unmarshalling the payload.
func send(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	return writer.WriteMessages(ctx, kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	})
}
