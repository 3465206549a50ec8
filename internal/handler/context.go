package handler

import (
	"errors"
	"net/http"

	"go-fleet-ws/internal/service"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getUserID returns the authenticated user id set by RequireAuth, or "" outside protected routes.
func getUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// getUserSiteID returns the home site of a site-bound user; ok is false for users without one.
func getUserSiteID(c *fiber.Ctx) (uuid.UUID, bool) {
	siteID, ok := c.Locals("user_site_id").(uuid.UUID)
	return siteID, ok && siteID != uuid.Nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// respondError maps service errors to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr  *service.ValidationError
		terr  *service.InvalidTransitionError
		perr  *service.PreconditionError
		fierr *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  verr.Message,
			"code":   verr.Code,
			"fields": verr.Fields,
		})
	case errors.As(err, &terr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": terr.Error(),
			"from":  terr.From,
			"to":    terr.To,
			"stale": terr.Stale,
		})
	case errors.As(err, &perr):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": perr.Error()})
	case errors.Is(err, service.ErrTransferNotFound),
		errors.Is(err, service.ErrMachineNotFound),
		errors.Is(err, service.ErrSiteNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &fierr):
		return c.Status(fierr.Code).JSON(fiber.Map{"error": fierr.Message})
	}

	log.WithError(err).WithFields(log.Fields{"method": c.Method(), "path": c.Path()}).Error("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": http.StatusText(http.StatusInternalServerError)})
}
