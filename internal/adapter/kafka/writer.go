package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jihoon0306/onyak-ai-rail/internal/config"
	"github.com/jihoon0306/onyak-ai-rail/internal/domain"
	"github.com/jihoon0306/onyak-ai-rail/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes lookup events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates an asynchronous Kafka producer for the configured topic.
// Delivery results are reported through metrics and logs only.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &Writer{metrics: metrics, logger: logger}
	w.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   w.onCompletion,
	}
	return w
}

// Publish enqueues event for delivery. It does not wait for the broker.
func (w *Writer) Publish(ctx context.Context, event domain.LookupEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Inc()
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) onCompletion(messages []kafkago.Message, err error) {
	if err != nil {
		w.metrics.EventsPublished.WithLabelValues("error").Add(float64(len(messages)))
		w.logger.Warn("lookup event delivery failed", "count", len(messages), "error", err)
		return
	}
	w.metrics.EventsPublished.WithLabelValues("success").Add(float64(len(messages)))
}

// serializeToMessage marshals a LookupEvent into a Kafka message keyed by its ID.
func serializeToMessage(event domain.LookupEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize lookup event: %w", err)
	}
	outcome := "live"
	if event.Fallback {
		outcome = "fallback"
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "outcome", Value: []byte(outcome)},
			{Key: "looked_up_at", Value: []byte(event.At.Format(time.RFC3339))},
		},
	}, nil
}
