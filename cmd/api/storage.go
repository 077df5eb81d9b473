package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/api/http/handlers"
	"github.com/campusvoice/issue-service/internal/config"
	"github.com/campusvoice/issue-service/internal/persistence"
	"github.com/campusvoice/issue-service/internal/repository"
)

// storage holds the repositories selected by STORAGE_DRIVER plus the
// connections behind them.
type storage struct {
	Issues   repository.IssueRepository
	History  repository.IssueHistoryRepository
	Sessions repository.SessionRepository

	postgres *persistence.Postgres
	redis    *persistence.Redis
	mongo    *persistence.Mongo
}

// openStorage connects the configured backends. Sessions use redis whenever
// it is reachable and fall back to process memory otherwise. History is only
// kept by the memory and postgres drivers.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	s := &storage{}

	s.redis = persistence.NewRedis(ctx, cfg.Redis, logger)
	if s.redis.Enabled() {
		s.Sessions = repository.NewRedisSessionRepository(s.redis.Client, cfg.Redis.KeyPrefix)
	} else {
		s.Sessions = repository.NewMemorySessionRepository()
	}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.postgres = pg
		if !pg.Enabled() {
			s.Close(ctx)
			return nil, fmt.Errorf("postgres storage selected but POSTGRES_DSN is empty")
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				s.Close(ctx)
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		s.Issues = repository.NewIssueRepository(pg.PoolHandle())
		s.History = repository.NewIssueHistoryRepository(pg.PoolHandle())
	case config.StorageRedis:
		if !s.redis.Enabled() {
			s.Close(ctx)
			return nil, fmt.Errorf("redis storage selected but %s is unreachable", cfg.Redis.Addr)
		}
		s.Issues = repository.NewRedisIssueRepository(s.redis.Client, cfg.Redis.KeyPrefix)
	case config.StorageMongo:
		m, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s.mongo = m
		if !m.Enabled() {
			s.Close(ctx)
			return nil, fmt.Errorf("mongo storage selected but MONGO_URI is empty")
		}
		s.Issues = repository.NewMongoIssueRepository(m.Database.Collection(cfg.Mongo.Collection))
	default:
		s.Issues = repository.NewMemoryIssueRepository()
		s.History = repository.NewMemoryIssueHistoryRepository()
	}
	return s, nil
}

// Dependencies lists the backends probed by the readiness check.
func (s *storage) Dependencies() map[string]handlers.Dependency {
	return map[string]handlers.Dependency{
		"postgres": s.postgres,
		"redis":    s.redis,
		"mongo":    s.mongo,
	}
}

// Close releases every open connection.
func (s *storage) Close(ctx context.Context) {
	s.postgres.Close()
	s.redis.Close()
	s.mongo.Close(ctx)
}
