package service

import (
	"context"
	"testing"
	"time"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/repository"
)

func analyticsIssue(id string, category domain.IssueCategory, status domain.IssueStatus, created time.Time, age time.Duration, rating *int) domain.Issue {
	return domain.Issue{
		ID:        id,
		Category:  category,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created.Add(age),
		Rating:    rating,
	}
}

func TestComputeAnalytics(t *testing.T) {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	four, two := 4, 2
	issues := []domain.Issue{
		analyticsIssue("a", domain.CategoryFacilities, domain.StatusResolved, base, 2*day, &four),
		analyticsIssue("b", domain.CategoryFacilities, domain.StatusResolved, base, 5*day+13*time.Hour, &two),
		analyticsIssue("c", domain.CategoryHostel, domain.StatusPending, base, 0, nil),
	}

	got := ComputeAnalytics(issues)
	if got.TotalIssues != 3 {
		t.Fatalf("expected 3 issues, got %d", got.TotalIssues)
	}
	if got.Categories[0].Category != domain.CategoryFacilities || got.Categories[0].Count != 2 || got.Categories[0].Percentage != 67 {
		t.Fatalf("unexpected top category %+v", got.Categories[0])
	}
	if got.Categories[1].Category != domain.CategoryHostel || got.Categories[1].Percentage != 33 {
		t.Fatalf("unexpected second category %+v", got.Categories[1])
	}
	// Ties keep display order.
	if got.Categories[2].Category != domain.CategoryAcademics || len(got.Categories) != len(domain.Categories) {
		t.Fatalf("unexpected tie order %+v", got.Categories)
	}
	if got.Statuses[0].Status != domain.StatusPending || got.Statuses[2].Status != domain.StatusResolved || got.Statuses[2].Count != 2 {
		t.Fatalf("statuses should follow lifecycle order: %+v", got.Statuses)
	}
	if got.ResolutionRate != 67 {
		t.Fatalf("expected resolution rate 67, got %d", got.ResolutionRate)
	}
	want := ResolutionTimeStats{AverageDays: 4, MinDays: 2, MaxDays: 6}
	if got.ResolutionTime != want {
		t.Fatalf("expected %+v, got %+v", want, got.ResolutionTime)
	}
	if got.AverageRating == nil || *got.AverageRating != 3 || got.RatedIssues != 2 {
		t.Fatalf("unexpected rating summary %v/%d", got.AverageRating, got.RatedIssues)
	}
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	got := ComputeAnalytics(nil)
	if got.TotalIssues != 0 || got.ResolutionRate != 0 || got.AverageRating != nil {
		t.Fatalf("unexpected empty analytics %+v", got)
	}
	for _, stat := range got.Categories {
		if stat.Percentage != 0 {
			t.Fatalf("empty collection should have zero percentages: %+v", stat)
		}
	}
	if got.ResolutionTime != (ResolutionTimeStats{}) {
		t.Fatalf("expected zero resolution time, got %+v", got.ResolutionTime)
	}
}

func TestComputeDashboardRecentOrdering(t *testing.T) {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	var issues []domain.Issue
	for i, id := range []string{"p1", "p2", "p3", "p4"} {
		issues = append(issues, analyticsIssue(id, domain.CategoryOther, domain.StatusPending, base.Add(time.Duration(i)*time.Hour), 0, nil))
	}
	issues = append(issues,
		analyticsIssue("r1", domain.CategoryOther, domain.StatusResolved, base, 10*time.Hour, nil),
		analyticsIssue("r2", domain.CategoryOther, domain.StatusResolved, base.Add(time.Hour), time.Hour, nil),
		analyticsIssue("x", domain.CategoryOther, domain.StatusRejected, base, 0, nil),
	)

	got := ComputeDashboard(issues)
	if got.Total != 7 || got.Pending != 4 || got.Resolved != 2 || got.Rejected != 1 || got.InProgress != 0 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if len(got.RecentPending) != 3 || got.RecentPending[0].ID != "p4" || got.RecentPending[2].ID != "p2" {
		t.Fatalf("unexpected recent pending %v", ids(got.RecentPending))
	}
	if got.RecentResolved[0].ID != "r1" {
		t.Fatalf("resolved issues should sort by last update: %v", ids(got.RecentResolved))
	}
	if len(got.RecentInProgress) != 0 {
		t.Fatal("expected no in-progress issues")
	}
	if got.Recent[0].ID != "p4" {
		t.Fatalf("unexpected recent %v", ids(got.Recent))
	}
}

func TestDashboardForScopesStudents(t *testing.T) {
	f := newIssueFixture(t, time.Second)
	ctx := context.Background()
	mustSubmit(t, f, student, wifiDraft())
	mustSubmit(t, f, other, wifiDraft())

	analytics := NewAnalyticsService(f.repo)
	mine, err := analytics.DashboardFor(ctx, student)
	if err != nil {
		t.Fatal(err)
	}
	if mine.Total != 1 {
		t.Fatalf("student should only see own issues, got %d", mine.Total)
	}
	everything, err := analytics.DashboardFor(ctx, admin)
	if err != nil {
		t.Fatal(err)
	}
	if everything.Total != 2 {
		t.Fatalf("admin should see every issue, got %d", everything.Total)
	}

	overview, err := analytics.Overview(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if overview.TotalIssues != 2 {
		t.Fatalf("unexpected overview total %d", overview.TotalIssues)
	}
}

func TestAnalyticsOnEmptyRepository(t *testing.T) {
	analytics := NewAnalyticsService(repository.NewMemoryIssueRepository())
	overview, err := analytics.Overview(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if overview.TotalIssues != 0 {
		t.Fatal("expected an empty overview")
	}
}
