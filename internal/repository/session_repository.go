package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusvoice/issue-service/internal/domain"
)

// SessionRepository persists the identity record of an authenticated caller.
// Records are keyed by session id, so one identity may hold several live
// sessions.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, identity domain.Identity, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*domain.Identity, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository stores records under "<prefix>:session:<session id>".
func NewRedisSessionRepository(client *redis.Client, prefix string) SessionRepository {
	return &redisSessionRepository{client: client, prefix: prefix}
}

func (r *redisSessionRepository) key(id string) string {
	return r.prefix + ":session:" + id
}

func (r *redisSessionRepository) Save(ctx context.Context, sessionID string, identity domain.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return r.client.Set(ctx, r.key(sessionID), payload, ttl).Err()
}

func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*domain.Identity, error) {
	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &identity, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

type memorySession struct {
	identity  domain.Identity
	expiresAt time.Time
}

type memorySessionRepository struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[string]memorySession
}

// NewMemorySessionRepository returns a process-local implementation.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{now: time.Now, sessions: make(map[string]memorySession)}
}

func (r *memorySessionRepository) Save(_ context.Context, sessionID string, identity domain.Identity, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := memorySession{identity: identity}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.sessions[sessionID] = entry
	return nil
}

func (r *memorySessionRepository) Get(_ context.Context, sessionID string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.sessions, sessionID)
		return nil, ErrNotFound
	}
	identity := entry.identity
	return &identity, nil
}

func (r *memorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
