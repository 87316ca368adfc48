package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/repository"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// CourseHandler wires course and sub-item HTTP routes.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course endpoints to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/unassign", h.unassign)
	router.Post("/:id/lessons", h.addLesson)
	router.Post("/:id/assignments", h.addAssignment)
	router.Post("/:id/projects", h.addProject)
	router.Post("/:id/resources", h.addResource)
	router.Delete("/:id/:collection/:itemId", h.removeItem)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	filter := repository.CourseFilter{
		Search:          c.Query("search"),
		Category:        c.Query("category"),
		Level:           c.Query("level"),
		Status:          c.Query("status"),
		InstructorEmail: c.Query("instructorEmail"),
		Page:            parseQueryInt(c, "page"),
		PageSize:        parseQueryInt(c, "limit"),
	}

	courses, err := h.service.List(c.Context(), scope, filter)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	course, err := h.service.Get(c.Context(), scope, id)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), scope, actorFromPrincipal(principal), payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(c.Context(), scope, actorFromPrincipal(principal), id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
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

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

func (h *CourseHandler) unassign(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	if err := h.service.Unassign(c.Context(), scope, actorFromPrincipal(principal), id); err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course unassigned", fiber.Map{"id": id})
}

func (h *CourseHandler) addLesson(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.AddLesson(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson added", lesson)
}

func (h *CourseHandler) addAssignment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.AddAssignment(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment added", assignment)
}

func (h *CourseHandler) addProject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	project, err := h.service.AddProject(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project added", project)
}

func (h *CourseHandler) addResource(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.ResourceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resource, err := h.service.AddResource(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resource added", resource)
}

func (h *CourseHandler) removeItem(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	collection := c.Params("collection")
	itemID := c.Params("itemId")

	if err := h.service.RemoveItem(c.Context(), scope, id, collection, itemID); err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "item removed", fiber.Map{"id": itemID})
}

func (h *CourseHandler) stats(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	stats, err := h.service.Stats(c.Context(), scope)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "course stats computed", stats)
}
