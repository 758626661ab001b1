package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/kafka"
	"github.com/GOMDJ/shorts-art/processor"
	"github.com/GOMDJ/shorts-art/types"
)

func main() {
	_ = godotenv.Load()

	log.Println("📨 Render worker - Starting...")

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	proc := processor.Wire(ctx, cfg)
	producer := processor.WireResultProducer(proc, cfg)
	if producer != nil {
		defer producer.Close()
	}

	handler := &kafka.TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool {
			if err := msg.Validate(); err != nil {
				log.Printf("❌ Dropping invalid render request: %v", err)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			result := proc.ProcessRequest(ctx, *msg)
			if result.Status != "done" {
				// Failures are recorded and published; a retry with the same
				// broken input would fail identically, so mark the offset.
				log.Printf("❌ Run %s failed: %s", result.RunID, result.Error)
			}
			return nil
		},
		AlwaysMark: true,
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: strings.Split(cfg.KafkaBrokers, ","),
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
		Handler: handler,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create Kafka consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start Kafka consumer: %v", err)
	}

	log.Printf("🔗 Brokers: %s | Topic: %s | Group: %s", cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	log.Println("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()
	if err := consumer.Close(); err != nil {
		log.Printf("Kafka consumer close error: %v", err)
	}
	log.Println("Worker stopped")
}
