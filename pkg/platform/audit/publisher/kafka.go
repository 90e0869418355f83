// Package publisher streams archived audit events to Kafka so compliance
// consumers (retention, SIEM, reporting) can follow the trail without
// querying the service.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "caseline/pkg/platform/audit"
)

// Kafka publishes audit events to a single topic, keyed by case ID so one
// case's events stay ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the given brokers. The topic must exist; this
// publisher does not manage topic lifecycle.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// Publish produces one event synchronously. The archive worker is already
// asynchronous relative to request handling, so blocking here costs nothing
// on the hot path and keeps delivery errors visible.
func (k *Kafka) Publish(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.CaseID),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Close flushes and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
