// Package events publishes best-effort pipeline lifecycle notifications to
// Kafka: document uploaded, embedded, deleted. Publish failures are logged,
// never surfaced to the caller — the pipeline's correctness never depends
// on a subscriber receiving these.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Kind names the lifecycle event.
type Kind string

const (
	DocumentUploaded  Kind = "document.uploaded"
	DocumentEmbedded  Kind = "document.embedded"
	DocumentDeleted   Kind = "document.deleted"
	CollectionDeleted Kind = "collection.deleted"
)

// Event is the envelope published for every lifecycle transition.
type Event struct {
	Kind         Kind      `json:"kind"`
	DocumentID   string    `json:"document_id,omitempty"`
	CollectionID string    `json:"collection_id,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher emits lifecycle events. Implementations must not block the
// pipeline on a broker outage.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Kafka publishes events to a topic via a segmentio/kafka-go writer.
type Kafka struct {
	writer *kafka.Writer
	topic  string
}

// NewKafka builds a producer-only publisher against brokers/topic.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (k *Kafka) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("marshal lifecycle event")
		return
	}
	key := ev.DocumentID
	if key == "" {
		key = ev.CollectionID
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Topic: k.topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("publish lifecycle event")
	}
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

var _ Publisher = (*Kafka)(nil)

// Noop discards every event; used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

var _ Publisher = Noop{}
