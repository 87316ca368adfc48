package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/repository"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// DoubtHandler wires doubt HTTP routes.
type DoubtHandler struct {
	service service.DoubtService
	logger  zerolog.Logger
}

// NewDoubtHandler constructs the handler.
func NewDoubtHandler(service service.DoubtService, logger zerolog.Logger) *DoubtHandler {
	return &DoubtHandler{
		service: service,
		logger:  logger.With().Str("component", "doubt_handler").Logger(),
	}
}

// Register attaches doubt endpoints to the router group.
func (h *DoubtHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:id/reply", h.reply)
}

func (h *DoubtHandler) list(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	filter := repository.DoubtFilter{
		Status:   c.Query("status"),
		CourseID: uint(parseQueryInt(c, "courseId")),
		Page:     parseQueryInt(c, "page"),
		PageSize: parseQueryInt(c, "limit"),
	}

	doubts, err := h.service.List(c.Context(), scope, filter)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "doubts retrieved", doubts)
}

func (h *DoubtHandler) reply(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.DoubtReplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	doubt, err := h.service.Reply(c.Context(), scope, actorFromPrincipal(principal), id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "doubt resolved", doubt)
}
