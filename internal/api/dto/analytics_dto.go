package dto

import (
	"time"

	"github.com/campusvoice/issue-service/internal/domain"
)

// CategoryStatResponse is a category share.
type CategoryStatResponse struct {
	Category   domain.IssueCategory `json:"category"`
	Count      int                  `json:"count"`
	Percentage int                  `json:"percentage"`
}

// StatusStatResponse is a status share.
type StatusStatResponse struct {
	Status     domain.IssueStatus `json:"status"`
	Count      int                `json:"count"`
	Percentage int                `json:"percentage"`
}

// ResolutionTimeResponse is expressed in whole days.
type ResolutionTimeResponse struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// AnalyticsResponse is the admin analytics payload.
type AnalyticsResponse struct {
	TotalIssues    int                    `json:"total_issues"`
	ResolutionRate int                    `json:"resolution_rate"`
	AverageRating  *float64               `json:"average_rating"`
	RatedIssues    int                    `json:"rated_issues"`
	ResolutionTime ResolutionTimeResponse `json:"resolution_time_days"`
	Categories     []CategoryStatResponse `json:"categories"`
	Statuses       []StatusStatResponse   `json:"statuses"`
}

// DashboardResponse is the landing page summary.
type DashboardResponse struct {
	Total            int            `json:"total"`
	Pending          int            `json:"pending"`
	InProgress       int            `json:"in_progress"`
	Resolved         int            `json:"resolved"`
	Rejected         int            `json:"rejected"`
	Recent           []IssueSummary `json:"recent"`
	RecentPending    []IssueSummary `json:"recent_pending"`
	RecentInProgress []IssueSummary `json:"recent_in_progress"`
	RecentResolved   []IssueSummary `json:"recent_resolved"`
}

// UserResponse is a directory entry.
type UserResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	IssuesSubmitted int       `json:"issues_submitted"`
	LastActive      time.Time `json:"last_active"`
}
