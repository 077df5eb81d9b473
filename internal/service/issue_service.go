package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/events"
	"github.com/campusvoice/issue-service/internal/repository"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

const commentPreviewLength = 80

// IssueService coordinates the issue lifecycle.
type IssueService struct {
	issues     repository.IssueRepository
	history    repository.IssueHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

// IssueDependencies bundles collaborators for the issue service. History is
// optional.
type IssueDependencies struct {
	IssueRepo   repository.IssueRepository
	HistoryRepo repository.IssueHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
	IDGenerator func() string
}

// NewIssueService builds the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	svc := &IssueService{
		issues:     deps.IssueRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
		newID:      deps.IDGenerator,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = defaultClock
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc
}

// IssueDraft is the student supplied part of a new issue.
type IssueDraft struct {
	Title       string               `validate:"required,max=200"`
	Description string               `validate:"required,max=5000"`
	Category    domain.IssueCategory `validate:"required"`
	Priority    domain.IssuePriority
	IsAnonymous bool
}

// IssueFilter narrows List results. Empty fields match everything.
type IssueFilter struct {
	Search     string
	Statuses   []domain.IssueStatus
	Categories []domain.IssueCategory
	Priorities []domain.IssuePriority
}

// Submit records a new pending issue on behalf of a student.
func (s *IssueService) Submit(ctx context.Context, actor domain.Identity, draft IssueDraft) (*domain.Issue, error) {
	if actor.Role != domain.RoleStudent {
		return nil, apperrors.NewForbidden("only students can submit issues")
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}
	if err := validate.Struct(draft); err != nil {
		return nil, validationError(err)
	}
	if !draft.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": draft.Category})
	}
	if !draft.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": draft.Priority})
	}

	now := s.now()
	issue := &domain.Issue{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Status:      domain.StatusPending,
		Priority:    draft.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		IsAnonymous: draft.IsAnonymous,
		Comments:    []domain.Comment{},
	}
	if !draft.IsAnonymous {
		issue.StudentID = lo.ToPtr(actor.ID)
		issue.StudentName = lo.ToPtr(actor.Name)
		issue.StudentEmail = lo.ToPtr(actor.Email)
	}

	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, mapRepoError(err, "issue", issue.ID)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssueSubmitted,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: "Issue submitted successfully",
		Payload: events.IssueSubmittedPayload{
			Category:    issue.Category,
			Priority:    issue.Priority,
			Title:       issue.Title,
			IsAnonymous: issue.IsAnonymous,
		},
	}, s.now)
	return issue, nil
}

// SetStatus moves an issue along the lifecycle.
func (s *IssueService) SetStatus(ctx context.Context, actor domain.Identity, id string, status domain.IssueStatus) (*domain.Issue, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators can change status")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}

	var previous domain.IssueStatus
	issue, err := s.mutate(ctx, id, func(issue *domain.Issue, _ time.Time) error {
		if !domain.CanTransition(issue.Status, status) {
			return apperrors.NewInvalidTransition(string(issue.Status), string(status))
		}
		previous = issue.Status
		issue.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, issue, actor, domain.ChangeTypeStatus,
		map[string]any{"status": previous}, map[string]any{"status": status})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: fmt.Sprintf("Issue status updated to %s", status),
		Payload: events.IssueStatusChangedPayload{OldStatus: previous, NewStatus: status},
	}, s.now)
	return issue, nil
}

// SetPriority changes triage urgency.
func (s *IssueService) SetPriority(ctx context.Context, actor domain.Identity, id string, priority domain.IssuePriority) (*domain.Issue, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators can change priority")
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	var previous domain.IssuePriority
	issue, err := s.mutate(ctx, id, func(issue *domain.Issue, _ time.Time) error {
		previous = issue.Priority
		issue.Priority = priority
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, issue, actor, domain.ChangeTypePriority,
		map[string]any{"priority": previous}, map[string]any{"priority": priority})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssuePriorityChanged,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: fmt.Sprintf("Issue priority updated to %s", priority),
		Payload: events.IssuePriorityChangedPayload{OldPriority: previous, NewPriority: priority},
	}, s.now)
	return issue, nil
}

// Assign sets the assignee. An empty assignee assigns the issue to the actor.
func (s *IssueService) Assign(ctx context.Context, actor domain.Identity, id, assigneeID string) (*domain.Issue, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators can assign issues")
	}
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		assigneeID = actor.ID
	}

	var previous *string
	issue, err := s.mutate(ctx, id, func(issue *domain.Issue, _ time.Time) error {
		previous = issue.AssignedTo
		issue.AssignedTo = lo.ToPtr(assigneeID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, issue, actor, domain.ChangeTypeAssignee,
		map[string]any{"assignedTo": lo.FromPtr(previous)}, map[string]any{"assignedTo": assigneeID})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: "Issue assigned successfully",
		Payload: events.IssueAssignedPayload{OldAssignee: previous, NewAssignee: assigneeID},
	}, s.now)
	return issue, nil
}

// AddComment appends a comment authored by the actor.
func (s *IssueService) AddComment(ctx context.Context, actor domain.Identity, id, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", map[string]any{"text": "required"})
	}

	var comment domain.Comment
	issue, err := s.mutate(ctx, id, func(issue *domain.Issue, stamp time.Time) error {
		if !actor.IsAdmin() && !issue.Involves(actor.ID) {
			return apperrors.NewForbidden("not allowed to comment on this issue")
		}
		comment = domain.Comment{
			ID:        s.newID(),
			IssueID:   issue.ID,
			UserID:    actor.ID,
			UserName:  actor.Name,
			UserRole:  actor.Role,
			Text:      text,
			CreatedAt: stamp,
		}
		issue.Comments = append(issue.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssueCommentAdded,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: "Comment added",
		Payload: events.IssueCommentAddedPayload{
			CommentID:   comment.ID,
			AuthorRole:  actor.Role,
			TextPreview: stringPreview(text, commentPreviewLength),
		},
	}, s.now)
	return &comment, nil
}

// RateResolution records the submitter's satisfaction with a resolved issue.
func (s *IssueService) RateResolution(ctx context.Context, actor domain.Identity, id string, rating int) (*domain.Issue, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating),
			map[string]any{"rating": rating})
	}

	var previous *int
	issue, err := s.mutate(ctx, id, func(issue *domain.Issue, _ time.Time) error {
		if !issue.SubmittedBy(actor.ID) {
			return apperrors.NewForbidden("only the submitter can rate this issue")
		}
		if issue.Status != domain.StatusResolved {
			return apperrors.NewValidationError("only resolved issues can be rated",
				map[string]any{"status": issue.Status})
		}
		previous = issue.Rating
		issue.Rating = lo.ToPtr(rating)
		return nil
	})
	if err != nil {
		return nil, err
	}

	oldValue := map[string]any{"rating": nil}
	if previous != nil {
		oldValue["rating"] = *previous
	}
	s.recordHistory(ctx, issue, actor, domain.ChangeTypeRating, oldValue, map[string]any{"rating": rating})
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventIssueRated,
		IssueID: issue.ID,
		Actor:   actorOf(actor),
		Message: "Thank you for your feedback",
		Payload: events.IssueRatedPayload{Rating: rating},
	}, s.now)
	return issue, nil
}

// GetByID returns the issue or nil when it does not exist.
func (s *IssueService) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// IssuesFor returns the issues the identity submitted or is assigned to, in
// collection order. Each call scans the whole collection.
func (s *IssueService) IssuesFor(ctx context.Context, identityID string) ([]domain.Issue, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return lo.Filter(all, func(issue domain.Issue, _ int) bool {
		return issue.Involves(identityID)
	}), nil
}

// List returns every issue matching the filter, most recently updated first.
func (s *IssueService) List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	all, err := s.issues.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return FilterIssues(all, filter), nil
}

// History returns the audit trail of an issue. Backends without history
// support yield an empty trail.
func (s *IssueService) History(ctx context.Context, id string) ([]domain.IssueHistory, error) {
	if _, err := s.issues.GetByID(ctx, id); err != nil {
		return nil, mapRepoError(err, "issue", id)
	}
	if s.history == nil {
		return []domain.IssueHistory{}, nil
	}
	entries, err := s.history.ListByIssue(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// FilterIssues applies filter to issues and orders the result by updatedAt,
// newest first. The input slice is not modified.
func FilterIssues(issues []domain.Issue, filter IssueFilter) []domain.Issue {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := lo.Filter(issues, func(issue domain.Issue, _ int) bool {
		if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, issue.Status) {
			return false
		}
		if len(filter.Categories) > 0 && !lo.Contains(filter.Categories, issue.Category) {
			return false
		}
		if len(filter.Priorities) > 0 && !lo.Contains(filter.Priorities, issue.Priority) {
			return false
		}
		return search == "" || matchesSearch(issue, search)
	})
	slices.SortStableFunc(result, func(a, b domain.Issue) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return result
}

// GroupByStatus buckets issues by status. Every status has an entry.
func GroupByStatus(issues []domain.Issue) map[domain.IssueStatus][]domain.Issue {
	groups := lo.GroupBy(issues, func(issue domain.Issue) domain.IssueStatus {
		return issue.Status
	})
	for _, status := range domain.Statuses {
		if _, ok := groups[status]; !ok {
			groups[status] = []domain.Issue{}
		}
	}
	return groups
}

func matchesSearch(issue domain.Issue, needle string) bool {
	return strings.Contains(strings.ToLower(issue.Title), needle) ||
		strings.Contains(strings.ToLower(issue.Description), needle) ||
		strings.Contains(strings.ToLower(lo.FromPtr(issue.StudentName)), needle)
}

// mutate loads an issue, applies fn with the next updatedAt value and persists
// with the loaded version.
func (s *IssueService) mutate(ctx context.Context, id string, fn func(issue *domain.Issue, stamp time.Time) error) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "issue", id)
	}
	stamp := s.nextTimestamp(issue.UpdatedAt)
	if err := fn(issue, stamp); err != nil {
		return nil, err
	}
	issue.UpdatedAt = stamp
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, mapRepoError(err, "issue", id)
	}
	return issue, nil
}

// nextTimestamp returns the current time, or previous+1ms when the clock has
// not advanced past previous.
func (s *IssueService) nextTimestamp(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		return previous.Add(timestampPrecision)
	}
	return now
}

func (s *IssueService) recordHistory(ctx context.Context, issue *domain.Issue, actor domain.Identity, changeType domain.IssueChangeType, oldValue, newValue map[string]any) {
	if s.history == nil {
		return
	}
	entry := &domain.IssueHistory{
		ID:         s.newID(),
		IssueID:    issue.ID,
		ChangedBy:  actor.ID,
		ChangeType: changeType,
		OldValue:   oldValue,
		NewValue:   newValue,
		CreatedAt:  issue.UpdatedAt,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record issue history",
			zap.String("issue_id", issue.ID),
			zap.String("change_type", string(changeType)),
			zap.Error(err))
	}
}
