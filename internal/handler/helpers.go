package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edupress/academy-api/internal/apperr"
	"github.com/edupress/academy-api/internal/auth"
	"github.com/edupress/academy-api/internal/service"
	"github.com/edupress/academy-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

// principalFromContext rebuilds the acting principal from the JWT locals.
func principalFromContext(c *fiber.Ctx) auth.Principal {
	principal := auth.Principal{}
	if v, ok := c.Locals("user_id").(uint); ok {
		principal.UserID = v
	}
	if v, ok := c.Locals("user_role").(string); ok {
		principal.Role = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		principal.Email = v
	}
	return principal
}

// scopeFromContext resolves the caller's visibility scope, failing the
// request with 401 when the principal cannot be resolved.
func scopeFromContext(c *fiber.Ctx) (auth.Scope, auth.Principal, error) {
	principal := principalFromContext(c)
	scope, err := auth.ResolveScope(principal)
	if err != nil {
		return auth.Scope{}, principal, err
	}
	return scope, principal, nil
}

func actorFromPrincipal(principal auth.Principal) service.ActivityActor {
	return service.ActivityActor{
		ID:    principal.UserID,
		Role:  principal.Role,
		Email: principal.Email,
	}
}

// sendError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and masked as 500s.
func sendError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
