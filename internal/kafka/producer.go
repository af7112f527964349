package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"logintel-backend/config"
	"logintel-backend/internal/model"
)

type EventProducer interface {
	Produce(ctx context.Context, events []model.BankingEvent) error
	Close() error
}

type kafkaEventProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewEventProducer builds a synchronous producer for one-shot tools like the
// seeder: WriteMessages blocks until the broker acknowledges, so the caller
// sees delivery errors. The caller owns Close.
func NewEventProducer(cfg *config.Config) (EventProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.EventTopic == "" {
		log.Error().Msg("Kafka brokers or event topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.EventTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    cfg.Ingest.BatchSize,
		BatchTimeout: cfg.Ingest.MaxBatchWait,
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.EventTopic).Msg("Kafka producer initialized")
	return &kafkaEventProducer{
		writer: writer,
		topic:  cfg.Kafka.EventTopic,
	}, nil
}

// Produce publishes a batch of events, keyed by source dataset so one
// source's events stay ordered within a partition.
func (p *kafkaEventProducer) Produce(ctx context.Context, events []model.BankingEvent) error {
	if len(events) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("dataset", event.Event.Dataset).Msg("Failed to marshal banking event for Kafka")
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.Event.Dataset),
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid messages to produce.")
		return nil
	}

	err := p.writer.WriteMessages(ctx, messages...)
	if err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")

	return nil
}

func (p *kafkaEventProducer) Close() error {
	return p.writer.Close()
}
