package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/pkg/interview/engine"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions as JSON so every Load hands out an
// independent copy, the same contract the Redis store gives.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) contract.InterviewSessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Purge expired items every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	r.cache.Set(session.Id, data, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*entity.Session, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, engine.ErrSessionMissing
	}

	var session entity.Session
	if err := json.Unmarshal(x.([]byte), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return nil
}
