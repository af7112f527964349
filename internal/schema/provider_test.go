package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	result *LoadResult
	err    error
	calls  int
}

func (l *stubLoader) LoadFields(ctx context.Context) (*LoadResult, error) {
	l.calls++
	return l.result, l.err
}

func TestProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the baseline before the first refresh", func(t *testing.T) {
		p := NewProvider(&stubLoader{})

		snap := p.Snapshot()
		require.NotNil(t, snap)
		assert.Equal(t, len(BaselineFields()), snap.Len())
		assert.Equal(t, DefaultTimeField, snap.DefaultTimeField)
		assert.Equal(t, PrimaryFacets, snap.PrimaryFacets)
	})

	t.Run("refresh swaps in the loaded snapshot", func(t *testing.T) {
		loader := &stubLoader{result: &LoadResult{
			Fields:           []FieldInfo{{Name: "event.action", Type: "keyword"}, {Name: "custom.field", Type: "keyword"}},
			DefaultTimeField: "event.time",
			PrimaryFacets:    []string{"custom.field"},
		}}
		p := NewProvider(loader)

		require.NoError(t, p.Refresh(ctx))

		snap := p.Snapshot()
		assert.Equal(t, 2, snap.Len())
		assert.Equal(t, "event.time", snap.DefaultTimeField)
		assert.Equal(t, []string{"custom.field"}, snap.PrimaryFacets)
		_, ok := snap.Field("custom.field")
		assert.True(t, ok)
	})

	t.Run("missing meta hints fall back to the defaults", func(t *testing.T) {
		loader := &stubLoader{result: &LoadResult{
			Fields: []FieldInfo{{Name: "event.action", Type: "keyword"}},
		}}
		p := NewProvider(loader)

		require.NoError(t, p.Refresh(ctx))

		snap := p.Snapshot()
		assert.Equal(t, DefaultTimeField, snap.DefaultTimeField)
		assert.Equal(t, PrimaryFacets, snap.PrimaryFacets)
	})

	t.Run("failed refresh keeps the current snapshot", func(t *testing.T) {
		loader := &stubLoader{err: errors.New("mapping fetch failed")}
		p := NewProvider(loader)
		before := p.Snapshot()

		err := p.Refresh(ctx)

		assert.Error(t, err)
		assert.Same(t, before, p.Snapshot())
	})

	t.Run("empty load keeps the current snapshot", func(t *testing.T) {
		loader := &stubLoader{result: &LoadResult{}}
		p := NewProvider(loader)
		before := p.Snapshot()

		err := p.Refresh(ctx)

		assert.Error(t, err)
		assert.Same(t, before, p.Snapshot())
	})
}
