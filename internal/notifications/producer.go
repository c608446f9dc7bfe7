package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// DeliveryChannel is the transport that carries a notification to its
// recipient. The dispatcher treats a returned error as a failed delivery for
// that one recipient only.
type DeliveryChannel interface {
	Deliver(ctx context.Context, entry *NotificationLogEntry) error
	Close() error
}

// KafkaChannelConfig contains configuration for the Kafka delivery channel
type KafkaChannelConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultKafkaChannelConfig returns a default channel configuration
func DefaultKafkaChannelConfig() *KafkaChannelConfig {
	return &KafkaChannelConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "entrant-notifications",
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaDeliveryChannel publishes notifications to a Kafka topic, keyed by
// recipient so one user's notifications stay ordered on a single partition.
type KafkaDeliveryChannel struct {
	producer sarama.SyncProducer
	config   *KafkaChannelConfig
}

// NewKafkaDeliveryChannel creates a Kafka-backed delivery channel
func NewKafkaDeliveryChannel(config *KafkaChannelConfig) (*KafkaDeliveryChannel, error) {
	if config == nil {
		config = DefaultKafkaChannelConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaDeliveryChannel{producer: producer, config: config}, nil
}

type notificationMessage struct {
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	StatusAtSend string    `json:"status_at_send"`
	Message      string    `json:"message"`
	SentAt       time.Time `json:"sent_at"`
}

// Deliver publishes one notification
func (kc *KafkaDeliveryChannel) Deliver(ctx context.Context, entry *NotificationLogEntry) error {
	payload, err := json.Marshal(notificationMessage{
		EventID:      entry.EventID.String(),
		UserID:       entry.UserID,
		StatusAtSend: string(entry.StatusAtSend),
		Message:      entry.Message,
		SentAt:       entry.SentAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kc.config.Topic,
		Key:   sarama.StringEncoder(entry.UserID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(entry.EventID.String())},
			{Key: []byte("status_at_send"), Value: []byte(entry.StatusAtSend)},
		},
		Timestamp: entry.SentAt,
	}

	if _, _, err := kc.producer.SendMessage(message); err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}
	return nil
}

// Close closes the underlying producer
func (kc *KafkaDeliveryChannel) Close() error {
	if kc.producer != nil {
		if err := kc.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
