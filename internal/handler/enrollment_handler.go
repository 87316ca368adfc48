package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// EnrollmentHandler wires enrollment lifecycle HTTP routes.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment endpoints to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("", h.grant)
	router.Post("/:id/revoke", h.revoke)
	router.Post("/:id/restore", h.restore)
	router.Delete("/:id", h.delete)
}

// RegisterCourseRoutes attaches the per-course enrollment listing.
func (h *EnrollmentHandler) RegisterCourseRoutes(courses fiber.Router) {
	courses.Get("/:id/enrollments", h.listByCourse)
}

func (h *EnrollmentHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	enrollments, err := h.service.ListByCourse(c.Context(), scope, courseID)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) grant(c *fiber.Ctx) error {
	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.GrantAccessRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.Grant(c.Context(), scope, actorFromPrincipal(principal), payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "access granted", enrollment)
}

func (h *EnrollmentHandler) revoke(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	enrollment, err := h.service.Revoke(c.Context(), scope, actorFromPrincipal(principal), id)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "access revoked", enrollment)
}

func (h *EnrollmentHandler) restore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	enrollment, err := h.service.Restore(c.Context(), scope, actorFromPrincipal(principal), id)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "access restored", enrollment)
}

func (h *EnrollmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	if err := h.service.Delete(c.Context(), scope, actorFromPrincipal(principal), id); err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "enrollment deleted", fiber.Map{"id": id})
}
