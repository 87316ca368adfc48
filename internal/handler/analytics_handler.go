package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// AnalyticsHandler wires dashboard analytics and activity feed routes.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	activity  service.ActivityService
	logger    zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(analytics service.AnalyticsService, activity service.ActivityService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		activity:  activity,
		logger:    logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches analytics endpoints to the router group.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

// RegisterActivity attaches the activity feed endpoint.
func (h *AnalyticsHandler) RegisterActivity(router fiber.Router) {
	router.Get("/recent", h.recent)
}

func (h *AnalyticsHandler) summary(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	summary, err := h.analytics.DashboardSummary(c.Context(), scope)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "dashboard summary computed", summary)
}

func (h *AnalyticsHandler) recent(c *fiber.Ctx) error {
	limit := parseQueryInt(c, "limit")

	events, err := h.activity.Recent(c.Context(), limit)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "recent activity retrieved", events)
}
