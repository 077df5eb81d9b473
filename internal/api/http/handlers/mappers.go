package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/dto"
	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/service"
)

// parseIssueFilter reads ?search=&status=&category=&priority=; list values
// are comma separated.
func parseIssueFilter(c *fiber.Ctx) service.IssueFilter {
	return service.IssueFilter{
		Search:     c.Query("search"),
		Statuses:   splitQuery[domain.IssueStatus](c.Query("status")),
		Categories: splitQuery[domain.IssueCategory](c.Query("category")),
		Priorities: splitQuery[domain.IssuePriority](c.Query("priority")),
	}
}

func splitQuery[T ~string](raw string) []T {
	if raw == "" || raw == "all" {
		return nil
	}
	var out []T
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, T(part))
		}
	}
	return out
}

func issueSummary(issue *domain.Issue) dto.IssueSummary {
	return dto.IssueSummary{
		ID:           issue.ID,
		Title:        issue.Title,
		Category:     issue.Category,
		Status:       issue.Status,
		Priority:     issue.Priority,
		IsAnonymous:  issue.IsAnonymous,
		StudentName:  issue.StudentName,
		AssignedTo:   issue.AssignedTo,
		CommentCount: len(issue.Comments),
		Rating:       issue.Rating,
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
	}
}

func issueSummaries(issues []domain.Issue) []dto.IssueSummary {
	items := make([]dto.IssueSummary, 0, len(issues))
	for i := range issues {
		items = append(items, issueSummary(&issues[i]))
	}
	return items
}

func issueDetail(issue *domain.Issue, history []domain.IssueHistory) dto.IssueDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(issue.Comments))
	for i := range issue.Comments {
		comments = append(comments, commentResponse(&issue.Comments[i]))
	}
	return dto.IssueDetailResponse{
		ID:           issue.ID,
		Title:        issue.Title,
		Description:  issue.Description,
		Category:     issue.Category,
		Status:       issue.Status,
		Priority:     issue.Priority,
		IsAnonymous:  issue.IsAnonymous,
		StudentID:    issue.StudentID,
		StudentName:  issue.StudentName,
		StudentEmail: issue.StudentEmail,
		AssignedTo:   issue.AssignedTo,
		Rating:       issue.Rating,
		Version:      issue.Version,
		CreatedAt:    issue.CreatedAt,
		UpdatedAt:    issue.UpdatedAt,
		Comments:     comments,
		History:      historyResponses(history),
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		IssueID:   comment.IssueID,
		UserID:    comment.UserID,
		UserName:  comment.UserName,
		UserRole:  comment.UserRole,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func historyResponses(entries []domain.IssueHistory) []dto.IssueHistoryResponse {
	if entries == nil {
		return nil
	}
	resp := make([]dto.IssueHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.IssueHistoryResponse{
			ID:         entry.ID,
			ChangeType: entry.ChangeType,
			ChangedBy:  entry.ChangedBy,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return resp
}

func statusCounts(issues []domain.Issue) map[domain.IssueStatus]int {
	counts := make(map[domain.IssueStatus]int, len(domain.Statuses))
	for status, group := range service.GroupByStatus(issues) {
		counts[status] = len(group)
	}
	return counts
}
