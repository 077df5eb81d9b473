package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/repository"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// DirectoryEntry describes a student known from their submissions.
type DirectoryEntry struct {
	ID              string
	Name            string
	Email           string
	IssuesSubmitted int
	LastActive      time.Time
}

// DirectoryService lists students who submitted issues under their name.
type DirectoryService struct {
	issues repository.IssueRepository
}

// NewDirectoryService builds the service.
func NewDirectoryService(issues repository.IssueRepository) *DirectoryService {
	return &DirectoryService{issues: issues}
}

// ListUsers returns known submitters matching search (case-insensitive, on
// name or email), most recently active first.
func (s *DirectoryService) ListUsers(ctx context.Context, search string) ([]DirectoryEntry, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return BuildDirectory(all, search), nil
}

// BuildDirectory is the pure form of ListUsers. Anonymous issues are skipped.
func BuildDirectory(issues []domain.Issue, search string) []DirectoryEntry {
	named := lo.Filter(issues, func(issue domain.Issue, _ int) bool {
		return !issue.IsAnonymous && issue.StudentID != nil
	})
	grouped := lo.GroupBy(named, func(issue domain.Issue) string { return *issue.StudentID })

	entries := make([]DirectoryEntry, 0, len(grouped))
	for id, submitted := range grouped {
		latest := lo.MaxBy(submitted, func(a, b domain.Issue) bool { return a.UpdatedAt.After(b.UpdatedAt) })
		entries = append(entries, DirectoryEntry{
			ID:              id,
			Name:            lo.FromPtr(latest.StudentName),
			Email:           lo.FromPtr(latest.StudentEmail),
			IssuesSubmitted: len(submitted),
			LastActive:      latest.UpdatedAt,
		})
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle != "" {
		entries = lo.Filter(entries, func(entry DirectoryEntry, _ int) bool {
			return strings.Contains(strings.ToLower(entry.Name), needle) ||
				strings.Contains(strings.ToLower(entry.Email), needle)
		})
	}
	slices.SortFunc(entries, func(a, b DirectoryEntry) int {
		if c := b.LastActive.Compare(a.LastActive); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return entries
}
