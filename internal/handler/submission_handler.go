package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/repository"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// SubmissionHandler wires submission review and grading HTTP routes.
type SubmissionHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.GradingService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission endpoints to the router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:id/review", h.review)
	router.Patch("/:id/grade", h.grade)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	filter := repository.SubmissionFilter{
		Status:   c.Query("status"),
		CourseID: uint(parseQueryInt(c, "courseId")),
		Page:     parseQueryInt(c, "page"),
		PageSize: parseQueryInt(c, "limit"),
	}

	submissions, err := h.service.List(c.Context(), scope, filter)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) review(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	submission, err := h.service.Review(c.Context(), scope, actorFromPrincipal(principal), id)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "submission reviewed", submission)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Grade(c.Context(), scope, actorFromPrincipal(principal), id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}
