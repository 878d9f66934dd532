package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxNotifier implements notify.Notifier by staging events in the outbox
// table. The producer worker (cmd/worker) drains the table into Kafka, so a
// broker outage never fails the request that produced the event.
type OutboxNotifier struct {
	repo          OutboxRepository
	aggregateType string
}

func NewOutboxNotifier(repo OutboxRepository) *OutboxNotifier {
	return &OutboxNotifier{repo: repo, aggregateType: "timeclock"}
}

func (n *OutboxNotifier) Publish(topic string, eventType string, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: n.aggregateType,
		AggregateID:   key,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}
	if err := validateOutboxEvent(event); err != nil {
		return err
	}
	return n.repo.Create(ctx, event)
}
