package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/dto"
	"github.com/campusvoice/issue-service/internal/domain"
	"github.com/campusvoice/issue-service/internal/service"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// IssuesHandler manages the endpoints shared by students and admins.
type IssuesHandler struct {
	issues    *service.IssueService
	analytics *service.AnalyticsService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issues *service.IssueService, analytics *service.AnalyticsService) *IssuesHandler {
	return &IssuesHandler{issues: issues, analytics: analytics}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := h.issues.Submit(c.UserContext(), *identity, service.IssueDraft{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    issueDetail(issue, nil),
		"message": "Issue submitted successfully",
	})
}

// ListIssues GET /issues returns the caller's submitted and assigned issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	mine, err := h.issues.IssuesFor(c.UserContext(), identity.ID)
	if err != nil {
		return err
	}
	filtered := service.FilterIssues(mine, parseIssueFilter(c))
	return c.JSON(fiber.Map{"data": dto.IssueListResponse{
		Items:  issueSummaries(filtered),
		Counts: statusCounts(mine),
	}})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	issue, err := h.visibleIssue(c, *identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueDetail(issue, nil)})
}

// AddComment POST /issues/:id/comments.
func (h *IssuesHandler) AddComment(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if _, err := h.visibleIssue(c, *identity); err != nil {
		return err
	}
	comment, err := h.issues.AddComment(c.UserContext(), *identity, c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data":    commentResponse(comment),
		"message": "Comment added",
	})
}

// RateIssue POST /issues/:id/rating.
func (h *IssuesHandler) RateIssue(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.RateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Rating == nil {
		return apperrors.NewValidationError("rating required", map[string]any{"rating": "required"})
	}
	if _, err := h.visibleIssue(c, *identity); err != nil {
		return err
	}
	issue, err := h.issues.RateResolution(c.UserContext(), *identity, c.Params("id"), *req.Rating)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    issueDetail(issue, nil),
		"message": "Thank you for your feedback",
	})
}

// Dashboard GET /dashboard.
func (h *IssuesHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	summary, err := h.analytics.DashboardFor(c.UserContext(), *identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:            summary.Total,
		Pending:          summary.Pending,
		InProgress:       summary.InProgress,
		Resolved:         summary.Resolved,
		Rejected:         summary.Rejected,
		Recent:           issueSummaries(summary.Recent),
		RecentPending:    issueSummaries(summary.RecentPending),
		RecentInProgress: issueSummaries(summary.RecentInProgress),
		RecentResolved:   issueSummaries(summary.RecentResolved),
	}})
}

// visibleIssue loads the :id issue. Students only see issues they submitted
// or are assigned to; anything else reads as not found.
func (h *IssuesHandler) visibleIssue(c *fiber.Ctx, identity domain.Identity) (*domain.Issue, error) {
	id := c.Params("id")
	issue, err := h.issues.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if issue == nil || (!identity.IsAdmin() && !issue.Involves(identity.ID)) {
		return nil, apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	return issue, nil
}
