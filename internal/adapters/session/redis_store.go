package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glucolog/diary-engine/internal/core/services"
)

var _ services.SessionStore = (*RedisStore)(nil)

// sessionTTL bounds abandoned drafts; an answer refreshes the clock.
const sessionTTL = 30 * time.Minute

// RedisStore keeps in-flight capture sessions in redis so a guided entry
// survives a process restart and can be served by any instance.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("diary:session:%s", id)
}

func (s *RedisStore) Save(ctx context.Context, session *services.CaptureSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, sessionTTL).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*services.CaptureSession, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, services.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session services.CaptureSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		log.Printf("[SESSION] Corrupted draft %s, cleaning up key", id)
		s.client.Del(ctx, s.key(id))
		return nil, services.ErrSessionNotFound
	}
	return &session, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
