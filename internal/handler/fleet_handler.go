package handler

import (
	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FleetHandler struct {
	service service.FleetService
}

func NewFleetHandler(s service.FleetService) *FleetHandler {
	return &FleetHandler{service: s}
}

func (h *FleetHandler) CreateSite(c *fiber.Ctx) error {
	var site model.Site
	if err := c.BodyParser(&site); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateSite(c.UserContext(), &site, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Site created", "data": site})
}

func (h *FleetHandler) GetSites(c *fiber.Ctx) error {
	sites, err := h.service.ListSites(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sites)
}

func (h *FleetHandler) CreateMachine(c *fiber.Ctx) error {
	var machine model.Machine
	if err := c.BodyParser(&machine); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateMachine(c.UserContext(), &machine, getUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Machine created", "data": machine})
}

// GetMachines lists machines, optionally by site_id and status.
func (h *FleetHandler) GetMachines(c *fiber.Ctx) error {
	filter := repository.MachineFilter{Status: model.MachineStatus(c.Query("status"))}
	if raw := c.Query("site_id"); raw != "" {
		siteID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid site_id"})
		}
		filter.SiteID = &siteID
	}

	machines, err := h.service.ListMachines(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(machines)
}

func (h *FleetHandler) GetMachine(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	machine, err := h.service.GetMachine(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(machine)
}
