package dto

import (
	"time"

	"github.com/campusvoice/issue-service/internal/domain"
)

// CreateIssueRequest payload.
type CreateIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    domain.IssueCategory `json:"category"`
	Priority    domain.IssuePriority `json:"priority"`
	IsAnonymous bool                 `json:"is_anonymous"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.IssueStatus `json:"status"`
}

// UpdatePriorityRequest payload.
type UpdatePriorityRequest struct {
	Priority domain.IssuePriority `json:"priority"`
}

// AssignRequest payload. An empty assignee assigns to the caller.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// RateRequest payload.
type RateRequest struct {
	Rating *int `json:"rating"`
}

// IssueSummary is the list representation of an issue.
type IssueSummary struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Category     domain.IssueCategory `json:"category"`
	Status       domain.IssueStatus   `json:"status"`
	Priority     domain.IssuePriority `json:"priority"`
	IsAnonymous  bool                 `json:"is_anonymous"`
	StudentName  *string              `json:"student_name"`
	AssignedTo   *string              `json:"assigned_to"`
	CommentCount int                  `json:"comment_count"`
	Rating       *int                 `json:"rating"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// IssueDetailResponse provides full issue info.
type IssueDetailResponse struct {
	ID           string                 `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Category     domain.IssueCategory   `json:"category"`
	Status       domain.IssueStatus     `json:"status"`
	Priority     domain.IssuePriority   `json:"priority"`
	IsAnonymous  bool                   `json:"is_anonymous"`
	StudentID    *string                `json:"student_id"`
	StudentName  *string                `json:"student_name"`
	StudentEmail *string                `json:"student_email"`
	AssignedTo   *string                `json:"assigned_to"`
	Rating       *int                   `json:"rating"`
	Version      int64                  `json:"version"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Comments     []CommentResponse      `json:"comments"`
	History      []IssueHistoryResponse `json:"history,omitempty"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID        string      `json:"id"`
	IssueID   string      `json:"issue_id"`
	UserID    string      `json:"user_id"`
	UserName  string      `json:"user_name"`
	UserRole  domain.Role `json:"user_role"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// IssueHistoryResponse is an audit entry.
type IssueHistoryResponse struct {
	ID         string                 `json:"id"`
	ChangeType domain.IssueChangeType `json:"change_type"`
	ChangedBy  string                 `json:"changed_by"`
	OldValue   map[string]any         `json:"old_value"`
	NewValue   map[string]any         `json:"new_value"`
	CreatedAt  time.Time              `json:"created_at"`
}

// IssueListResponse wraps a filtered list with per-status counts.
type IssueListResponse struct {
	Items  []IssueSummary             `json:"items"`
	Counts map[domain.IssueStatus]int `json:"counts"`
}
