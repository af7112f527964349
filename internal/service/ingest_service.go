package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"logintel-backend/config"
	"logintel-backend/internal/elasticsearch"
	"logintel-backend/internal/kafka"
	"logintel-backend/internal/model"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type IngestService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type ingestService struct {
	consumer    kafka.EventConsumer
	eventStore  elasticsearch.EventStore
	batchSize   int           // How many Kafka messages to process at once
	maxWaitTime time.Duration // Max time to wait for batchSize messages
}

func NewIngestService(
	consumer kafka.EventConsumer,
	eventStore elasticsearch.EventStore,
	cfg *config.Config,
) IngestService {
	return &ingestService{
		consumer:    consumer,
		eventStore:  eventStore,
		batchSize:   cfg.Ingest.BatchSize,
		maxWaitTime: cfg.Ingest.MaxBatchWait,
	}
}

func (s *ingestService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting Event Ingest Service loop...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Event Ingest Service loop stopping due to context cancellation.")
			return
		default:
		}

		// Process one batch of messages
		err := s.processBatch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info().Msg("Context cancelled during batch processing.")
				return
			}
			log.Error().Err(err).Msg("Error processing ingest batch")
			time.Sleep(1 * time.Second)
		}
	}
}

func (s *ingestService) processBatch(ctx context.Context) error {
	events := make([]*model.BankingEvent, 0, s.batchSize)
	originalMessages := make([]kafkaGo.Message, 0, s.batchSize)
	batchStartTime := time.Now()
	commitNeeded := false

	for len(events) < s.batchSize {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled while building ingest batch.")
			return ctx.Err()
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, s.maxWaitTime-time.Since(batchStartTime))

		event, originalMsg, err := s.consumer.FetchMessage(fetchCtx)
		cancel() // Cancel the fetch context

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				// Waited long enough, process whatever we have collected
				log.Debug().Int("batch_size", len(events)).Msg("Max wait time reached for batch, processing partial batch.")
				break
			}
			// A malformed payload still comes back with its Kafka message so
			// the offset can be committed; track it and keep fetching.
			if originalMsg.Topic != "" {
				originalMessages = append(originalMessages, originalMsg)
				log.Warn().Int64("offset", originalMsg.Offset).Msg("Adding malformed message to batch for commit tracking.")
				events = append(events, event) // event is nil here
				continue
			}

			log.Error().Err(err).Msg("Failed to fetch message, stopping batch accumulation for now.")
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}

		// Successfully fetched and parsed
		events = append(events, event)
		originalMessages = append(originalMessages, originalMsg)
		commitNeeded = true // We got at least one valid message

		if len(events) >= s.batchSize {
			break
		}
	}

	if len(events) == 0 {
		log.Debug().Msg("No messages in batch to process.")
		return nil
	}

	log.Debug().Int("batch_size", len(events)).Msg("Processing collected batch...")

	// Store events, skipping the nil slots left by malformed payloads.
	validEvents := make([]model.BankingEvent, 0, len(events))
	for _, event := range events {
		if event != nil {
			validEvents = append(validEvents, *event)
		}
	}
	errStore := s.eventStore.StoreEvents(ctx, validEvents)
	if errStore != nil {
		log.Error().Err(errStore).Msg("Failed to store events to Elasticsearch")
		// DO NOT commit; the batch is reprocessed on the next cycle.
		return fmt.Errorf("failed storing events: %w", errStore)
	}

	// Commit to Kafka only after storage succeeded. Malformed-only batches
	// are committed too, otherwise the consumer would re-read them forever.
	if commitNeeded || len(originalMessages) > 0 {
		log.Debug().Int("message_count", len(originalMessages)).Msg("Attempting to commit Kafka messages...")
		errCommit := s.consumer.CommitMessages(ctx, originalMessages...)
		if errCommit != nil {
			log.Error().Err(errCommit).Msg("Failed to commit Kafka messages after successful storage")
			// Data is stored but the offset is not committed; the batch will
			// be reprocessed on restart.
			return fmt.Errorf("failed committing kafka messages: %w", errCommit)
		}
		log.Info().Int("batch_size", len(validEvents)).Msg("Successfully processed and committed batch.")
	}

	return nil
}
