package domain

import "time"

// IssueChangeType captures what changed in a history entry.
type IssueChangeType string

const (
	ChangeTypeStatus   IssueChangeType = "STATUS_CHANGE"
	ChangeTypePriority IssueChangeType = "PRIORITY_CHANGE"
	ChangeTypeAssignee IssueChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeRating   IssueChangeType = "RATING_CHANGE"
)

// IssueHistory is an immutable audit trail entry.
type IssueHistory struct {
	ID         string
	IssueID    string
	ChangedBy  string
	ChangeType IssueChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
