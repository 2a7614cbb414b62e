package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/config"
)

// KafkaPublisher writes events as JSON messages keyed by event type.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(brokers string) []string {
	var result []string
	for _, b := range strings.Split(strings.ReplaceAll(brokers, " ", ""), ",") {
		if b != "" {
			result = append(result, b)
		}
	}
	return result
}

// NewKafkaPublisher returns nil when no brokers are configured.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	brokers := ParseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil
	}

	transport := &kafka.Transport{DialTimeout: 10 * time.Second}
	if cfg.Username != "" && cfg.Password != "" {
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
		transport.TLS = &tls.Config{}
		log.Printf("🔐 Kafka: SASL/PLAIN enabled (username: %s)", cfg.Username)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Transport:    transport,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   logFailedBatch,
	}
	log.Printf("✅ Kafka producer configured for %v (topic %s)", brokers, cfg.Topic)
	return &KafkaPublisher{writer: w}
}

// logFailedBatch reports async delivery failures; WriteMessages never sees them.
func logFailedBatch(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		log.Printf("⚠️ Kafka: failed to publish %s: %v", m.Key, err)
	}
}

// Publish enqueues e and returns without waiting for the broker.
func (k *KafkaPublisher) Publish(ctx context.Context, e Event) {
	if k == nil {
		return
	}
	body, err := json.Marshal(e)
	if err != nil {
		log.Printf("⚠️ Kafka: cannot encode event %s: %v", e.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Type), Value: body, Time: e.At}); err != nil {
		log.Printf("⚠️ Kafka: failed to publish %s: %v", e.Type, err)
	}
}

func (k *KafkaPublisher) Close() error {
	if k == nil {
		return nil
	}
	return k.writer.Close()
}
