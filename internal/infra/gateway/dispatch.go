// Package gateway encapsulates calls to external collaborators: the
// classification and routing system consumes intake events from a kafka
// topic.
package gateway

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/participa-df/ouvidoria/internal/usecase"
)

type KafkaDispatcher struct {
	writer *kafka.Writer
}

// NewKafkaDispatcher builds the dispatcher for the given brokers and topic.
func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Dispatch publishes one intake event keyed by protocol.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, event usecase.IngestEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode intake event")
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Protocolo),
		Value: payload,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish intake event")
	}
	return nil
}

// Close flushes and releases the underlying writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
