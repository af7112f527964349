package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logintel-backend/internal/dto"
)

func TestConversationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and append turns", func(t *testing.T) {
		s := NewInMemoryConversationStore()

		id, err := s.CreateConversation(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		require.NoError(t, s.AddTurn(ctx, id, dto.ConversationTurn{Role: "user", Content: "failed logins today"}))
		require.NoError(t, s.AddTurn(ctx, id, dto.ConversationTurn{Role: "model", Content: `{"query_type":"count"}`}))

		history, err := s.GetHistory(ctx, id)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "user", history[0].Role)
		assert.Equal(t, "model", history[1].Role)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		s := NewInMemoryConversationStore()

		_, err := s.GetHistory(ctx, "nope")
		assert.ErrorIs(t, err, ErrConversationNotFound)

		err = s.AddTurn(ctx, "nope", dto.ConversationTurn{Role: "user", Content: "hi"})
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	t.Run("history is bounded", func(t *testing.T) {
		s := NewInMemoryConversationStore()
		id, err := s.CreateConversation(ctx)
		require.NoError(t, err)

		for i := 0; i < maxTurns+5; i++ {
			require.NoError(t, s.AddTurn(ctx, id, dto.ConversationTurn{Role: "user", Content: fmt.Sprintf("turn %d", i)}))
		}

		history, err := s.GetHistory(ctx, id)
		require.NoError(t, err)
		assert.Len(t, history, maxTurns)
		// Oldest turns are dropped first.
		assert.Equal(t, "turn 5", history[0].Content)
	})

	t.Run("returned history is a copy", func(t *testing.T) {
		s := NewInMemoryConversationStore()
		id, err := s.CreateConversation(ctx)
		require.NoError(t, err)

		require.NoError(t, s.AddTurn(ctx, id, dto.ConversationTurn{Role: "user", Content: "first"}))
		history, err := s.GetHistory(ctx, id)
		require.NoError(t, err)

		require.NoError(t, s.AddTurn(ctx, id, dto.ConversationTurn{Role: "model", Content: "second"}))
		assert.Len(t, history, 1)
	})
}
