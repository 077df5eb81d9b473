package service

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/repository"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

const (
	recentIssueLimit = 3
	day              = 24 * time.Hour
)

// CategoryStat is the share of issues in one category.
type CategoryStat struct {
	Category   domain.IssueCategory
	Count      int
	Percentage int
}

// StatusStat is the share of issues in one status.
type StatusStat struct {
	Status     domain.IssueStatus
	Count      int
	Percentage int
}

// ResolutionTimeStats summarises whole days between creation and the last
// update of resolved issues.
type ResolutionTimeStats struct {
	AverageDays int
	MinDays     int
	MaxDays     int
}

// Analytics is the admin overview of the issue collection.
type Analytics struct {
	TotalIssues    int
	Categories     []CategoryStat
	Statuses       []StatusStat
	ResolutionTime ResolutionTimeStats
	ResolutionRate int
	AverageRating  *float64
	RatedIssues    int
}

// Dashboard is the per-identity summary shown on landing pages.
type Dashboard struct {
	Total            int
	Pending          int
	InProgress       int
	Resolved         int
	Rejected         int
	Recent           []domain.Issue
	RecentPending    []domain.Issue
	RecentInProgress []domain.Issue
	RecentResolved   []domain.Issue
}

// AnalyticsService derives aggregate views from the issue collection.
type AnalyticsService struct {
	issues repository.IssueRepository
}

// NewAnalyticsService builds the service.
func NewAnalyticsService(issues repository.IssueRepository) *AnalyticsService {
	return &AnalyticsService{issues: issues}
}

// Overview computes analytics over every issue.
func (s *AnalyticsService) Overview(ctx context.Context) (*Analytics, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ComputeAnalytics(all), nil
}

// DashboardFor summarises the issues visible to the identity: every issue
// for admins, submitted or assigned issues otherwise.
func (s *AnalyticsService) DashboardFor(ctx context.Context, identity domain.Identity) (*Dashboard, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !identity.IsAdmin() {
		all = lo.Filter(all, func(issue domain.Issue, _ int) bool {
			return issue.Involves(identity.ID)
		})
	}
	return ComputeDashboard(all), nil
}

// ComputeAnalytics is the pure form of Overview.
func ComputeAnalytics(issues []domain.Issue) *Analytics {
	total := len(issues)
	byCategory := lo.CountValuesBy(issues, func(issue domain.Issue) domain.IssueCategory { return issue.Category })
	byStatus := lo.CountValuesBy(issues, func(issue domain.Issue) domain.IssueStatus { return issue.Status })

	categories := lo.Map(domain.Categories, func(category domain.IssueCategory, _ int) CategoryStat {
		return CategoryStat{Category: category, Count: byCategory[category], Percentage: percentage(byCategory[category], total)}
	})
	slices.SortStableFunc(categories, func(a, b CategoryStat) int { return b.Count - a.Count })

	statuses := lo.Map(domain.Statuses, func(status domain.IssueStatus, _ int) StatusStat {
		return StatusStat{Status: status, Count: byStatus[status], Percentage: percentage(byStatus[status], total)}
	})

	analytics := &Analytics{
		TotalIssues:    total,
		Categories:     categories,
		Statuses:       statuses,
		ResolutionTime: resolutionTime(issues),
		ResolutionRate: percentage(byStatus[domain.StatusResolved], total),
	}

	ratings := lo.FilterMap(issues, func(issue domain.Issue, _ int) (int, bool) {
		return lo.FromPtr(issue.Rating), issue.Rating != nil
	})
	analytics.RatedIssues = len(ratings)
	if len(ratings) > 0 {
		avg := math.Round(float64(lo.Sum(ratings))/float64(len(ratings))*10) / 10
		analytics.AverageRating = &avg
	}
	return analytics
}

// ComputeDashboard is the pure form of DashboardFor.
func ComputeDashboard(issues []domain.Issue) *Dashboard {
	byStatus := lo.CountValuesBy(issues, func(issue domain.Issue) domain.IssueStatus { return issue.Status })
	return &Dashboard{
		Total:            len(issues),
		Pending:          byStatus[domain.StatusPending],
		InProgress:       byStatus[domain.StatusInProgress],
		Resolved:         byStatus[domain.StatusResolved],
		Rejected:         byStatus[domain.StatusRejected],
		Recent:           newest(issues, "", byCreatedAt),
		RecentPending:    newest(issues, domain.StatusPending, byCreatedAt),
		RecentInProgress: newest(issues, domain.StatusInProgress, byUpdatedAt),
		RecentResolved:   newest(issues, domain.StatusResolved, byUpdatedAt),
	}
}

func byCreatedAt(issue domain.Issue) time.Time { return issue.CreatedAt }
func byUpdatedAt(issue domain.Issue) time.Time { return issue.UpdatedAt }

// newest returns up to recentIssueLimit issues, optionally of one status,
// ordered by key descending.
func newest(issues []domain.Issue, status domain.IssueStatus, key func(domain.Issue) time.Time) []domain.Issue {
	subset := lo.Filter(issues, func(issue domain.Issue, _ int) bool {
		return status == "" || issue.Status == status
	})
	slices.SortStableFunc(subset, func(a, b domain.Issue) int { return key(b).Compare(key(a)) })
	if len(subset) > recentIssueLimit {
		subset = subset[:recentIssueLimit]
	}
	return subset
}

func resolutionTime(issues []domain.Issue) ResolutionTimeStats {
	days := lo.FilterMap(issues, func(issue domain.Issue, _ int) (int, bool) {
		elapsed := issue.UpdatedAt.Sub(issue.CreatedAt)
		return int(math.Round(float64(elapsed) / float64(day))), issue.Status == domain.StatusResolved
	})
	if len(days) == 0 {
		return ResolutionTimeStats{}
	}
	return ResolutionTimeStats{
		AverageDays: int(math.Round(float64(lo.Sum(days)) / float64(len(days)))),
		MinDays:     lo.Min(days),
		MaxDays:     lo.Max(days),
	}
}

// percentage rounds count/total to a whole percent; an empty total is 0.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
