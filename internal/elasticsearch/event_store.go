package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"logintel-backend/config"
	"logintel-backend/internal/model"
)

// EventStore persists banking events into daily indices, one per source
// dataset (logs-auth-2025.08.25, logs-payment-2025.08.25, ...).
type EventStore interface {
	StoreEvents(ctx context.Context, events []model.BankingEvent) error
	Close(ctx context.Context) error
}

type elasticEventStore struct {
	client          *elasticsearch.Client
	bulkIndexer     esutil.BulkIndexer
	indexPrefix     string
	countSuccessful uint64
	countFailed     uint64
}

func NewEventStore(lc fx.Lifecycle, cfg *config.Config) (EventStore, *elasticsearch.Client, error) {
	store, err := newEventStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Elasticsearch BulkIndexer...")
			return store.Close(ctx)
		},
	})

	return store, store.client, nil
}

// NewDirectEventStore is for one-shot tools like the seeder that run outside
// the fx lifecycle. The caller owns Close.
func NewDirectEventStore(cfg *config.Config) (EventStore, error) {
	return newEventStore(cfg)
}

func newEventStore(cfg *config.Config) (*elasticEventStore, error) {
	esClient, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	store := &elasticEventStore{
		client:      esClient,
		indexPrefix: cfg.Elasticsearch.EventIndex,
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        esClient,
		Index:         store.indexName("", time.Now()), // Default index, overridden per item
		NumWorkers:    cfg.Elasticsearch.BulkWorkers,
		FlushBytes:    cfg.Elasticsearch.FlushBytes,
		FlushInterval: cfg.Elasticsearch.FlushInterval,
		OnError: func(ctx context.Context, err error) {
			log.Error().Err(err).Msg("BulkIndexer error")
		},
		OnFlushStart: func(ctx context.Context) context.Context {
			log.Debug().Msg("BulkIndexer flush starting")
			return ctx
		},
		OnFlushEnd: func(ctx context.Context) {
			log.Debug().Msg("BulkIndexer flush ended")
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating the BulkIndexer")
		return nil, err
	}
	store.bulkIndexer = bi
	log.Info().Msg("Elasticsearch BulkIndexer initialized")

	return store, nil
}

// StoreEvents adds a batch of events to the bulk indexer queue.
func (s *elasticEventStore) StoreEvents(ctx context.Context, events []model.BankingEvent) error {
	if len(events) == 0 {
		return nil
	}

	currentFailed := atomic.LoadUint64(&s.countFailed)

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal banking event for Elasticsearch")
			atomic.AddUint64(&s.countFailed, 1)
			continue
		}

		err = s.bulkIndexer.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action: "index",
				Index:  s.indexName(event.Event.Dataset, event.Timestamp),
				Body:   bytes.NewReader(data),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					atomic.AddUint64(&s.countSuccessful, 1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					atomic.AddUint64(&s.countFailed, 1)
					if err != nil {
						log.Error().Err(err).Msg("BulkIndexer item failed")
					} else {
						log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("BulkIndexer item rejected")
					}
				},
			},
		)
		if err != nil {
			log.Error().Err(err).Msg("Failed to add item to BulkIndexer")
			atomic.AddUint64(&s.countFailed, 1)
		}
	}
	log.Debug().Int("count", len(events)).Msg("Added banking events to Elasticsearch BulkIndexer queue")

	if atomic.LoadUint64(&s.countFailed) > currentFailed {
		return errors.New("one or more events failed during bulk indexing attempt")
	}

	return nil
}

func (s *elasticEventStore) Close(ctx context.Context) error {
	log.Info().Msg("Attempting to close BulkIndexer...")
	err := s.bulkIndexer.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error closing BulkIndexer")
	} else {
		log.Info().Msg("BulkIndexer closed.")
	}

	stats := s.bulkIndexer.Stats()
	log.Info().
		Uint64("indexed", stats.NumIndexed).
		Uint64("added", stats.NumAdded).
		Uint64("flushed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Uint64("requests", stats.NumRequests).
		Msg("Elasticsearch BulkIndexer final stats")

	log.Info().
		Uint64("callback_successful", atomic.LoadUint64(&s.countSuccessful)).
		Uint64("callback_failed", atomic.LoadUint64(&s.countFailed)).
		Msg("Elasticsearch BulkIndexer final callback stats")

	return err
}

// indexName builds the daily index for an event, keyed by the event's own
// timestamp so replayed history lands in the right day.
func (s *elasticEventStore) indexName(dataset string, ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	day := ts.UTC().Format("2006.01.02")
	if dataset == "" {
		return fmt.Sprintf("%s-%s", s.indexPrefix, day)
	}
	return fmt.Sprintf("%s-%s-%s", s.indexPrefix, dataset, day)
}
