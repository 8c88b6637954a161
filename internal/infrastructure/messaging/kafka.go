package messaging

import (
	"time"

	"hospital-appointment/config"

	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter returns a writer for the configured topic, or nil when
// Kafka is disabled or no brokers are set.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}
