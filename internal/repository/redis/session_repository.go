package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/repository/contract"
	"ai-interview-be/pkg/interview/engine"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "interview_session:"

type SessionRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *goredis.Client, ttl time.Duration) contract.InterviewSessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

func Key(id string) string {
	return keyPrefix + id
}

// Save rewrites the whole record and refreshes its TTL.
func (r *SessionRepository) Save(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, Key(session.Id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", session.Id, err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.rdb.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, engine.ErrSessionMissing
		}
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, Key(id)).Err()
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
