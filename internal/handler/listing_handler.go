package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/dto"
	"github.com/edupress/academy-api/internal/repository"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

// ListingHandler wires job and hackathon listing HTTP routes.
type ListingHandler struct {
	service service.ListingService
	logger  zerolog.Logger
}

// NewListingHandler constructs the handler.
func NewListingHandler(service service.ListingService, logger zerolog.Logger) *ListingHandler {
	return &ListingHandler{
		service: service,
		logger:  logger.With().Str("component", "listing_handler").Logger(),
	}
}

// RegisterJobs attaches job endpoints to the router group.
func (h *ListingHandler) RegisterJobs(router fiber.Router) {
	router.Get("", h.listJobs)
	router.Post("", h.createJob)
	router.Patch("/:id", h.updateJob)
	router.Delete("/:id", h.deleteJob)
}

// RegisterHackathons attaches hackathon endpoints to the router group.
func (h *ListingHandler) RegisterHackathons(router fiber.Router) {
	router.Get("", h.listHackathons)
	router.Post("", h.createHackathon)
	router.Patch("/:id", h.updateHackathon)
	router.Delete("/:id", h.deleteHackathon)
}

func listingFilter(c *fiber.Ctx) repository.ListingFilter {
	return repository.ListingFilter{
		Search:   c.Query("search"),
		Page:     parseQueryInt(c, "page"),
		PageSize: parseQueryInt(c, "limit"),
	}
}

func (h *ListingHandler) listJobs(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	jobs, err := h.service.ListJobs(c.Context(), scope, listingFilter(c))
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "jobs retrieved", jobs)
}

func (h *ListingHandler) createJob(c *fiber.Ctx) error {
	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.JobCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	job, err := h.service.CreateJob(c.Context(), scope, actorFromPrincipal(principal), payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "job created", job)
}

func (h *ListingHandler) updateJob(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.JobUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	job, err := h.service.UpdateJob(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "job updated", job)
}

func (h *ListingHandler) deleteJob(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	if err := h.service.DeleteJob(c.Context(), scope, id); err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "job deleted", fiber.Map{"id": id})
}

func (h *ListingHandler) listHackathons(c *fiber.Ctx) error {
	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	hackathons, err := h.service.ListHackathons(c.Context(), scope, listingFilter(c))
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "hackathons retrieved", hackathons)
}

func (h *ListingHandler) createHackathon(c *fiber.Ctx) error {
	scope, principal, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.HackathonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	hackathon, err := h.service.CreateHackathon(c.Context(), scope, actorFromPrincipal(principal), payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "hackathon created", hackathon)
}

func (h *ListingHandler) updateHackathon(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	var payload dto.HackathonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	hackathon, err := h.service.UpdateHackathon(c.Context(), scope, id, payload)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "hackathon updated", hackathon)
}

func (h *ListingHandler) deleteHackathon(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scope, _, err := scopeFromContext(c)
	if err != nil {
		return sendError(c, h.logger, err)
	}

	if err := h.service.DeleteHackathon(c.Context(), scope, id); err != nil {
		return sendError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "hackathon deleted", fiber.Map{"id": id})
}
