package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/dto"
	"github.com/campusvoice/issue-service/internal/service"
	apperrors "github.com/campusvoice/issue-service/pkg/util/errorutil"
)

// AdminIssuesHandler exposes triage endpoints.
type AdminIssuesHandler struct {
	issues *service.IssueService
}

// NewAdminIssuesHandler constructs handler.
func NewAdminIssuesHandler(issues *service.IssueService) *AdminIssuesHandler {
	return &AdminIssuesHandler{issues: issues}
}

// ListIssues GET /admin/issues.
func (h *AdminIssuesHandler) ListIssues(c *fiber.Ctx) error {
	all, err := h.issues.List(c.UserContext(), service.IssueFilter{})
	if err != nil {
		return err
	}
	filtered := service.FilterIssues(all, parseIssueFilter(c))
	return c.JSON(fiber.Map{"data": dto.IssueListResponse{
		Items:  issueSummaries(filtered),
		Counts: statusCounts(all),
	}})
}

// GetIssue GET /admin/issues/:id.
func (h *AdminIssuesHandler) GetIssue(c *fiber.Ctx) error {
	id := c.Params("id")
	issue, err := h.issues.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if issue == nil {
		return apperrors.NewNotFound("issue", map[string]any{"id": id})
	}
	history, err := h.issues.History(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": issueDetail(issue, history)})
}

// UpdateStatus PATCH /admin/issues/:id/status.
func (h *AdminIssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	issue, err := h.issues.SetStatus(c.UserContext(), *identity, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    issueDetail(issue, nil),
		"message": fmt.Sprintf("Issue status updated to %s", issue.Status),
	})
}

// UpdatePriority PATCH /admin/issues/:id/priority.
func (h *AdminIssuesHandler) UpdatePriority(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePriorityRequest
	if err := c.BodyParser(&req); err != nil || req.Priority == "" {
		return apperrors.NewValidationError("priority required", nil)
	}
	issue, err := h.issues.SetPriority(c.UserContext(), *identity, c.Params("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    issueDetail(issue, nil),
		"message": fmt.Sprintf("Issue priority updated to %s", issue.Priority),
	})
}

// Assign POST /admin/issues/:id/assign.
func (h *AdminIssuesHandler) Assign(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	issue, err := h.issues.Assign(c.UserContext(), *identity, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    issueDetail(issue, nil),
		"message": "Issue assigned successfully",
	})
}
