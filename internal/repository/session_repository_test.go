package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/campusvoice/issue-service/internal/domain"
)

func runSessionRepositoryContract(t *testing.T, repo SessionRepository, id string) {
	t.Helper()
	ctx := context.Background()
	identity := domain.Identity{ID: "student-1", Name: "Jane Doe", Email: "jane.doe@campus.edu", Role: domain.RoleStudent}
	otherDevice := id + "-other"

	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}
	for _, sessionID := range []string{id, otherDevice} {
		if err := repo.Save(ctx, sessionID, identity, time.Hour); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}
	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *got != identity {
		t.Fatalf("unexpected identity %+v", got)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := repo.Get(ctx, otherDevice); err != nil {
		t.Fatalf("deleting one session should keep the other: %v", err)
	}
	if err := repo.Delete(ctx, otherDevice); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("deleting twice should succeed, got %v", err)
	}
}

func TestMemorySessionRepositoryContract(t *testing.T) {
	runSessionRepositoryContract(t, NewMemorySessionRepository(), "session-1")
}

func TestMemorySessionRepositoryExpires(t *testing.T) {
	repo := NewMemorySessionRepository().(*memorySessionRepository)
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	if err := repo.Save(ctx, "s1", domain.Identity{ID: "student-1", Role: domain.RoleStudent}, time.Minute); err != nil {
		t.Fatal(err)
	}
	now = now.Add(59 * time.Second)
	if _, err := repo.Get(ctx, "s1"); err != nil {
		t.Fatalf("session should still be valid: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := repo.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestRedisSessionRepositoryContract(t *testing.T) {
	addr := os.Getenv("CAMPUSVOICE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAMPUSVOICE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	runSessionRepositoryContract(t, NewRedisSessionRepository(client, "campusvoice-test"), uuid.NewString())
}
