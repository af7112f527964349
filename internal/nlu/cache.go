package nlu

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// cachedInterpreter memoizes interpretations per question. Conversations
// are context dependent, so anything with history bypasses the cache.
// Redis being down only costs the memoization, never the request.
type cachedInterpreter struct {
	inner Interpreter
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedInterpreter(inner Interpreter, rdb *redis.Client, ttl time.Duration) Interpreter {
	if rdb == nil {
		return inner
	}
	return &cachedInterpreter{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *cachedInterpreter) Interpret(ctx context.Context, question string, history []dto.ConversationTurn) (*model.StructuredQuery, error) {
	if len(history) > 0 {
		return c.inner.Interpret(ctx, question, history)
	}

	key := interpretationKey(question)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var q model.StructuredQuery
		if jsonErr := json.Unmarshal([]byte(cached), &q); jsonErr == nil {
			log.Debug().Str("question", question).Msg("Interpretation cache hit")
			return &q, nil
		}
		log.Warn().Str("key", key).Msg("Dropping undecodable cached interpretation")
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Debug().Err(err).Msg("Interpretation cache unavailable")
	}

	structured, err := c.inner.Interpret(ctx, question, history)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(structured); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			log.Debug().Err(setErr).Msg("Failed to cache interpretation")
		}
	}
	return structured, nil
}

func interpretationKey(question string) string {
	sum := sha256.Sum256([]byte(question))
	return "nlu:" + hex.EncodeToString(sum[:])
}
