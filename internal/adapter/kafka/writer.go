package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mokulua/kilo-data-service/internal/briefing"
)

// Writer publishes briefings to the delivery topic.
// It implements briefing.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the briefing topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes one briefing and writes it to the topic.
func (w *Writer) Publish(ctx context.Context, b briefing.DailyBriefing) error {
	msg, err := serializeToMessage(b)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DailyBriefing into a Kafka message keyed by
// island, so per-island ordering is preserved across runs.
func serializeToMessage(b briefing.DailyBriefing) (kafkago.Message, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize briefing: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(b.Island),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "briefing_id", Value: []byte(b.ID)},
			{Key: "generated_at", Value: []byte(b.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
