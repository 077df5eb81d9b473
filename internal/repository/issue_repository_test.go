package repository

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/persistence"
)

func strPtr(s string) *string { return &s }

func sampleIssue(id string, created time.Time) *domain.Issue {
	return &domain.Issue{
		ID:           id,
		Title:        "WiFi down",
		Description:  "No connection in the library",
		Category:     domain.CategoryFacilities,
		Status:       domain.StatusPending,
		Priority:     domain.PriorityHigh,
		CreatedAt:    created,
		UpdatedAt:    created,
		StudentID:    strPtr("student-1"),
		StudentName:  strPtr("Jane Doe"),
		StudentEmail: strPtr("jane.doe@campus.edu"),
		Comments:     []domain.Comment{},
	}
}

// runIssueRepositoryContract exercises behaviour every backend must share.
func runIssueRepositoryContract(t *testing.T, repo IssueRepository) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	first := sampleIssue(uuid.NewString(), base)
	second := sampleIssue(uuid.NewString(), base.Add(time.Minute))
	second.IsAnonymous = true
	second.StudentID, second.StudentName, second.StudentEmail = nil, nil, nil

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("expected version 1 after create, got %d", first.Version)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Create(ctx, sampleIssue(first.ID, base)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	loaded, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !reflect.DeepEqual(loaded, first) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, first)
	}

	loaded.Status = domain.StatusInProgress
	loaded.AssignedTo = strPtr("admin-1")
	loaded.UpdatedAt = base.Add(2 * time.Minute)
	loaded.Comments = append(loaded.Comments, domain.Comment{
		ID:        uuid.NewString(),
		IssueID:   loaded.ID,
		UserID:    "admin-1",
		UserName:  "Admin User",
		UserRole:  domain.RoleAdmin,
		Text:      "Looking into it",
		CreatedAt: base.Add(2 * time.Minute),
	})
	if err := repo.Update(ctx, loaded); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if loaded.Version != 2 {
		t.Fatalf("expected version 2 after update, got %d", loaded.Version)
	}

	stale := first.Clone()
	stale.Priority = domain.PriorityLow
	if err := repo.Update(ctx, stale); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	if err := repo.Update(ctx, sampleIssue(uuid.NewString(), base)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatalf("unexpected list order %+v", all)
	}
	if !reflect.DeepEqual(&all[0], loaded) {
		t.Fatalf("listed issue mismatch:\n got %+v\nwant %+v", all[0], loaded)
	}
	if all[1].StudentID != nil || !all[1].IsAnonymous {
		t.Fatal("anonymous issue lost its null submitter")
	}
}

func TestMemoryIssueRepositoryContract(t *testing.T) {
	runIssueRepositoryContract(t, NewMemoryIssueRepository())
}

func TestMemoryIssueRepositoryIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueRepository()
	issue := sampleIssue("i1", time.Now().UTC())
	if err := repo.Create(ctx, issue); err != nil {
		t.Fatal(err)
	}
	issue.Title = "mutated after create"

	loaded, err := repo.GetByID(ctx, "i1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Title != "WiFi down" {
		t.Fatal("repository must not share memory with callers")
	}
}

func TestRedisIssueRepositoryContract(t *testing.T) {
	addr := os.Getenv("CAMPUSVOICE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CAMPUSVOICE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	prefix := "campusvoice-test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), prefix+":issues") })

	runIssueRepositoryContract(t, NewRedisIssueRepository(client, prefix))
}

func TestPostgresIssueRepositoryContract(t *testing.T) {
	dsn := os.Getenv("CAMPUSVOICE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CAMPUSVOICE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)
	if err := persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE issues CASCADE`); err != nil {
		t.Fatal(err)
	}

	runIssueRepositoryContract(t, NewIssueRepository(pool))
}

func TestMongoIssueRepositoryContract(t *testing.T) {
	uri := os.Getenv("CAMPUSVOICE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CAMPUSVOICE_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	coll := client.Database("campusvoice_test").Collection("issues_" + uuid.NewString())
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })

	runIssueRepositoryContract(t, NewMongoIssueRepository(coll))
}
