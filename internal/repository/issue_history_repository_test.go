package repository

import (
	"context"
	"testing"
	"time"

	"github.com/campusvoice/issue-service/internal/domain"
)

func TestMemoryIssueHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryIssueHistoryRepository()
	now := time.Now().UTC()

	entries := []domain.IssueHistory{
		{ID: "h1", IssueID: "i1", ChangedBy: "admin-1", ChangeType: domain.ChangeTypeStatus, CreatedAt: now},
		{ID: "h2", IssueID: "i2", ChangedBy: "admin-1", ChangeType: domain.ChangeTypePriority, CreatedAt: now},
		{ID: "h3", IssueID: "i1", ChangedBy: "admin-1", ChangeType: domain.ChangeTypeAssignee, CreatedAt: now},
	}
	for i := range entries {
		if err := repo.Create(ctx, &entries[i]); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListByIssue(ctx, "i1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "h1" || got[1].ID != "h3" {
		t.Fatalf("unexpected history %+v", got)
	}
	empty, err := repo.ListByIssue(ctx, "none")
	if err != nil || len(empty) != 0 || empty == nil {
		t.Fatalf("expected empty non-nil slice, got %v %v", empty, err)
	}
}
