package schema

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// Loader fetches the live schema and dictionary from the backing store.
type Loader interface {
	LoadFields(ctx context.Context) (*LoadResult, error)
}

// LoadResult carries the loaded fields plus the index _meta hints, when the
// mapping declares them.
type LoadResult struct {
	Fields           []FieldInfo
	DefaultTimeField string
	PrimaryFacets    []string
}

// Provider hands out immutable snapshots. Refresh is driven externally
// (scheduler, startup); readers never block on a reload.
type Provider interface {
	Snapshot() *Snapshot
	Refresh(ctx context.Context) error
}

type provider struct {
	loader Loader

	mu      sync.RWMutex
	current *Snapshot
}

// NewProvider starts on the embedded baseline so the service answers
// questions before the first live load lands.
func NewProvider(loader Loader) Provider {
	return &provider{
		loader:  loader,
		current: BaselineSnapshot(),
	}
}

func (p *provider) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh loads a fresh snapshot and swaps it in. On failure the previous
// snapshot stays in place.
func (p *provider) Refresh(ctx context.Context) error {
	loaded, err := p.loader.LoadFields(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Schema refresh failed, keeping current snapshot")
		return err
	}
	if loaded == nil || len(loaded.Fields) == 0 {
		log.Warn().Msg("Schema refresh returned no fields, keeping current snapshot")
		return errors.New("schema load returned no fields")
	}

	timeField := loaded.DefaultTimeField
	if timeField == "" {
		timeField = DefaultTimeField
	}
	facets := loaded.PrimaryFacets
	if len(facets) == 0 {
		facets = PrimaryFacets
	}
	next := NewSnapshot(loaded.Fields, timeField, facets)

	p.mu.Lock()
	p.current = next
	p.mu.Unlock()

	log.Info().Int("fields", len(loaded.Fields)).Msg("Schema snapshot refreshed")
	return nil
}
