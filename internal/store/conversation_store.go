package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"logintel-backend/internal/dto"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

// maxTurns bounds how much history a single conversation keeps; older turns
// are dropped so long-running chats cannot grow the process without limit.
const maxTurns = 20

type ConversationStore interface {
	CreateConversation(ctx context.Context) (string, error)
	GetHistory(ctx context.Context, conversationID string) ([]dto.ConversationTurn, error)
	AddTurn(ctx context.Context, conversationId string, turn dto.ConversationTurn) error
}

type inMemoryConversationStore struct {
	store map[string][]dto.ConversationTurn // map[conversationId][]Turns
	mu    sync.RWMutex
}

func NewInMemoryConversationStore() ConversationStore {
	return &inMemoryConversationStore{
		store: make(map[string][]dto.ConversationTurn),
	}
}

func (s *inMemoryConversationStore) CreateConversation(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	newID := uuid.NewString()
	s.store[newID] = make([]dto.ConversationTurn, 0)
	return newID, nil
}

func (s *inMemoryConversationStore) GetHistory(ctx context.Context, conversationId string) ([]dto.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns, ok := s.store[conversationId]
	if !ok {
		return nil, ErrConversationNotFound
	}
	// Hand out a copy; callers must not see later appends.
	history := make([]dto.ConversationTurn, len(turns))
	copy(history, turns)
	return history, nil
}

func (s *inMemoryConversationStore) AddTurn(ctx context.Context, conversationId string, turn dto.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns, ok := s.store[conversationId]
	if !ok {
		return ErrConversationNotFound
	}
	turns = append(turns, turn)
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	s.store[conversationId] = turns
	return nil
}
