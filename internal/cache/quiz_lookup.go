package cache

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"quizroom/internal/model"
	"quizroom/internal/repository"
	"quizroom/internal/service"
)

// DefaultQuizTTL bounds how long a cached quiz can serve the join flow before
// the database is consulted again.
const DefaultQuizTTL = 10 * time.Minute

// RedisQuizLookup caches join-code lookups in Redis, falling back to the quiz
// repository on a miss. Concurrent misses for the same code are collapsed into
// one database read via singleflight.
type RedisQuizLookup struct {
	client *redis.Client
	repo   repository.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group
}

var _ service.QuizLookup = (*RedisQuizLookup)(nil)

func NewRedisQuizLookup(client *redis.Client, repo repository.QuizRepository, ttl time.Duration) *RedisQuizLookup {
	if ttl <= 0 {
		ttl = DefaultQuizTTL
	}
	return &RedisQuizLookup{client: client, repo: repo, ttl: ttl}
}

func (l *RedisQuizLookup) ByJoinCode(ctx context.Context, code string) (*model.Quiz, error) {
	key := quizKey(code)

	if data, err := l.client.Get(ctx, key).Bytes(); err == nil {
		var quiz model.Quiz
		if err := json.Unmarshal(data, &quiz); err == nil {
			return &quiz, nil
		}
		// A corrupt entry is dropped and reloaded from the repository.
		l.client.Del(ctx, key)
	}

	result, err, _ := l.sf.Do(code, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache meanwhile.
		if data, err := l.client.Get(ctx, key).Bytes(); err == nil {
			var quiz model.Quiz
			if err := json.Unmarshal(data, &quiz); err == nil {
				return &quiz, nil
			}
		}

		quiz, err := l.repo.FindByJoinCode(ctx, code)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(quiz); err == nil {
			if err := l.client.Set(ctx, key, data, l.ttlWithJitter()).Err(); err != nil {
				log.Warn().Err(err).Str("joinCode", code).Msg("Failed to cache quiz, serving from repository")
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Quiz), nil
}

func (l *RedisQuizLookup) Invalidate(ctx context.Context, code string) {
	if err := l.client.Del(ctx, quizKey(code)).Err(); err != nil {
		log.Warn().Err(err).Str("joinCode", code).Msg("Failed to invalidate cached quiz")
	}
}

// ttlWithJitter spreads expirations so a burst of joins cannot expire and
// reload every cached quiz at the same instant.
func (l *RedisQuizLookup) ttlWithJitter() time.Duration {
	jitter := time.Duration(rand.Int63n(int64(l.ttl / 10)))
	return l.ttl + jitter
}

func quizKey(code string) string {
	return "quiz:joincode:" + code
}
