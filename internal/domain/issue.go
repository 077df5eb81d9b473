package domain

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// IssueCategory groups issues by campus area.
type IssueCategory string

const (
	CategoryAcademics       IssueCategory = "academics"
	CategoryHostel          IssueCategory = "hostel"
	CategoryFacilities      IssueCategory = "facilities"
	CategoryExtracurricular IssueCategory = "extracurricular"
	CategoryOther           IssueCategory = "other"
)

// Categories lists every category in display order.
var Categories = []IssueCategory{
	CategoryAcademics,
	CategoryHostel,
	CategoryFacilities,
	CategoryExtracurricular,
	CategoryOther,
}

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
	StatusRejected   IssueStatus = "rejected"
)

// Statuses lists every status in lifecycle order.
var Statuses = []IssueStatus{
	StatusPending,
	StatusInProgress,
	StatusResolved,
	StatusRejected,
}

// IssuePriority enumerates triage urgency.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []IssuePriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

// Satisfaction rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Issue is the aggregate for a reported campus concern.
type Issue struct {
	ID           string        `json:"id" bson:"_id"`
	Title        string        `json:"title" bson:"title"`
	Description  string        `json:"description" bson:"description"`
	Category     IssueCategory `json:"category" bson:"category"`
	Status       IssueStatus   `json:"status" bson:"status"`
	Priority     IssuePriority `json:"priority" bson:"priority"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updatedAt"`
	IsAnonymous  bool          `json:"isAnonymous" bson:"isAnonymous"`
	StudentID    *string       `json:"studentId" bson:"studentId"`
	StudentName  *string       `json:"studentName" bson:"studentName"`
	StudentEmail *string       `json:"studentEmail" bson:"studentEmail"`
	AssignedTo   *string       `json:"assignedTo" bson:"assignedTo"`
	Comments     []Comment     `json:"comments" bson:"comments"`
	Rating       *int          `json:"rating" bson:"rating"`
	Version      int64         `json:"version" bson:"version"`
}

// Involves reports whether the identity submitted or is assigned to the issue.
func (i *Issue) Involves(identityID string) bool {
	if identityID == "" {
		return false
	}
	return (i.StudentID != nil && *i.StudentID == identityID) ||
		(i.AssignedTo != nil && *i.AssignedTo == identityID)
}

// SubmittedBy reports whether the identity is the recorded submitter.
func (i *Issue) SubmittedBy(identityID string) bool {
	return identityID != "" && i.StudentID != nil && *i.StudentID == identityID
}

// Clone returns a deep copy so callers can mutate without sharing state.
func (i *Issue) Clone() *Issue {
	if i == nil {
		return nil
	}
	out := *i
	out.StudentID = cloneString(i.StudentID)
	out.StudentName = cloneString(i.StudentName)
	out.StudentEmail = cloneString(i.StudentEmail)
	out.AssignedTo = cloneString(i.AssignedTo)
	if i.Rating != nil {
		rating := *i.Rating
		out.Rating = &rating
	}
	out.Comments = append([]Comment{}, i.Comments...)
	return &out
}

// Valid reports whether the category is known.
func (c IssueCategory) Valid() bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Valid reports whether the status is known.
func (s IssueStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Valid reports whether the priority is known.
func (p IssuePriority) Valid() bool {
	for _, candidate := range Priorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// resolved and rejected may only be reopened, never moved sideways.
var allowedTransitions = map[IssueStatus]mapset.Set[IssueStatus]{
	StatusPending:    mapset.NewSet(StatusInProgress, StatusResolved, StatusRejected),
	StatusInProgress: mapset.NewSet(StatusPending, StatusResolved, StatusRejected),
	StatusResolved:   mapset.NewSet(StatusInProgress),
	StatusRejected:   mapset.NewSet(StatusPending),
}

// CanTransition reports whether an issue may move from current to next.
func CanTransition(current, next IssueStatus) bool {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return allowed.Contains(next)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
