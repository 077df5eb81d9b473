package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campusvoice/issue-service/internal/domain"
)

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// redisIssueRepository keeps the whole collection as one JSON array under a
// single key; every write replaces the array inside a WATCH transaction.
type redisIssueRepository struct {
	client *redis.Client
	key    string
}

// NewRedisIssueRepository stores the collection under "<prefix>:issues".
func NewRedisIssueRepository(client *redis.Client, prefix string) IssueRepository {
	return &redisIssueRepository{client: client, key: prefix + ":issues"}
}

func (r *redisIssueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	return r.mutate(ctx, func(issues []domain.Issue) ([]domain.Issue, error) {
		for i := range issues {
			if issues[i].ID == issue.ID {
				return nil, ErrDuplicateID
			}
		}
		stored := issue.Clone()
		stored.Version = 1
		return append(issues, *stored), nil
	}, func() { issue.Version = 1 })
}

func (r *redisIssueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	return r.mutate(ctx, func(issues []domain.Issue) ([]domain.Issue, error) {
		for i := range issues {
			if issues[i].ID != issue.ID {
				continue
			}
			if issues[i].Version != issue.Version {
				return nil, ErrVersionConflict
			}
			stored := issue.Clone()
			stored.Version++
			issues[i] = *stored
			return issues, nil
		}
		return nil, ErrNotFound
	}, func() { issue.Version++ })
}

func (r *redisIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	issues, err := r.load(ctx, r.client)
	if err != nil {
		return nil, err
	}
	for i := range issues {
		if issues[i].ID == id {
			return &issues[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *redisIssueRepository) List(ctx context.Context) ([]domain.Issue, error) {
	return r.load(ctx, r.client)
}

func (r *redisIssueRepository) mutate(ctx context.Context, apply func([]domain.Issue) ([]domain.Issue, error), onCommit func()) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		issues, err := r.load(ctx, tx)
		if err != nil {
			return err
		}
		updated, err := apply(issues)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("encode issues: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, payload, 0)
			return nil
		})
		return err
	}, r.key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}
	if err != nil {
		return err
	}
	onCommit()
	return nil
}

func (r *redisIssueRepository) load(ctx context.Context, c stringGetter) ([]domain.Issue, error) {
	raw, err := c.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Issue{}, nil
	}
	if err != nil {
		return nil, err
	}
	var issues []domain.Issue
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}
