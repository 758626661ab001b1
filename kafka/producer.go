package kafka

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"github.com/GOMDJ/shorts-art/types"
)

// Producer publishes render results back to Kafka so upstream services can
// react to finished runs.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer builds a synchronous producer. Results are rare and small, so
// waiting for acks is cheap and keeps delivery ordering simple.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return &Producer{producer: producer, topic: topic}, nil
}

// PublishResult sends one render result keyed by run ID.
func (p *Producer) PublishResult(result types.RenderResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(result.RunID),
		Value: sarama.ByteEncoder(raw),
	})
	if err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}
	log.Printf("📤 Published render result: run=%s partition=%d offset=%d", result.RunID, partition, offset)
	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
