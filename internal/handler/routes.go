package handler

import (
	"go-fleet-ws/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Guard builds the middleware that admits callers holding a privilege.
type Guard func(privilege string) fiber.Handler

// RegisterTransferRoutes mounts the transfer lifecycle under r.
func RegisterTransferRoutes(r fiber.Router, h *TransferHandler, require Guard) {
	r.Get("/", require(model.PrivTransferView), h.List)
	r.Post("/", require(model.PrivTransferCreate), h.Create)
	r.Get("/:id", require(model.PrivTransferView), h.Get)
	r.Get("/:id/events", require(model.PrivTransferView), h.Events)
	r.Get("/:id/challan", require(model.PrivTransferView), h.Challan)
	r.Get("/:id/challan.pdf", require(model.PrivTransferView), h.ChallanPDF)
	r.Post("/:id/approve", require(model.PrivTransferApprove), h.Approve)
	r.Post("/:id/reject", require(model.PrivTransferApprove), h.Reject)
	r.Post("/:id/attachments", require(model.PrivTransferDispatch), h.UploadAttachment)
	r.Post("/:id/dispatch", require(model.PrivTransferDispatch), h.Dispatch)
	r.Post("/:id/receive", require(model.PrivTransferReceive), h.Receive)
}

// RegisterFleetRoutes mounts machines and sites under r.
func RegisterFleetRoutes(r fiber.Router, h *FleetHandler, require Guard) {
	r.Get("/machines", require(model.PrivMachineView), h.GetMachines)
	r.Post("/machines", require(model.PrivMachineCreate), h.CreateMachine)
	r.Get("/machines/:id", require(model.PrivMachineView), h.GetMachine)
	r.Get("/sites", require(model.PrivSiteView), h.GetSites)
	r.Post("/sites", require(model.PrivSiteCreate), h.CreateSite)
}
