package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusvoice/issue-service/internal/api/dto"
	"github.com/campusvoice/issue-service/internal/observability"
	"github.com/campusvoice/issue-service/internal/service"
)

// AdminInsightsHandler serves analytics, the user directory and metrics.
type AdminInsightsHandler struct {
	analytics *service.AnalyticsService
	directory *service.DirectoryService
	metrics   *observability.Metrics
}

// NewAdminInsightsHandler constructs handler.
func NewAdminInsightsHandler(analytics *service.AnalyticsService, directory *service.DirectoryService, metrics *observability.Metrics) *AdminInsightsHandler {
	return &AdminInsightsHandler{analytics: analytics, directory: directory, metrics: metrics}
}

// Analytics GET /admin/analytics.
func (h *AdminInsightsHandler) Analytics(c *fiber.Ctx) error {
	overview, err := h.analytics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	categories := make([]dto.CategoryStatResponse, 0, len(overview.Categories))
	for _, stat := range overview.Categories {
		categories = append(categories, dto.CategoryStatResponse{Category: stat.Category, Count: stat.Count, Percentage: stat.Percentage})
	}
	statuses := make([]dto.StatusStatResponse, 0, len(overview.Statuses))
	for _, stat := range overview.Statuses {
		statuses = append(statuses, dto.StatusStatResponse{Status: stat.Status, Count: stat.Count, Percentage: stat.Percentage})
	}
	return c.JSON(fiber.Map{"data": dto.AnalyticsResponse{
		TotalIssues:    overview.TotalIssues,
		ResolutionRate: overview.ResolutionRate,
		AverageRating:  overview.AverageRating,
		RatedIssues:    overview.RatedIssues,
		ResolutionTime: dto.ResolutionTimeResponse{
			Average: overview.ResolutionTime.AverageDays,
			Min:     overview.ResolutionTime.MinDays,
			Max:     overview.ResolutionTime.MaxDays,
		},
		Categories: categories,
		Statuses:   statuses,
	}})
}

// Users GET /admin/users.
func (h *AdminInsightsHandler) Users(c *fiber.Ctx) error {
	entries, err := h.directory.ListUsers(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	users := make([]dto.UserResponse, 0, len(entries))
	for _, entry := range entries {
		users = append(users, dto.UserResponse{
			ID:              entry.ID,
			Name:            entry.Name,
			Email:           entry.Email,
			IssuesSubmitted: entry.IssuesSubmitted,
			LastActive:      entry.LastActive,
		})
	}
	return c.JSON(fiber.Map{"data": users})
}

// Metrics GET /metrics.
func (h *AdminInsightsHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
