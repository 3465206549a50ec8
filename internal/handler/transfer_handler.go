package handler

import (
	"io"
	"strings"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
)

type TransferHandler struct {
	transfers   service.TransferService
	receipts    service.ReceiptService
	challans    service.ChallanService
	attachments service.AttachmentService
}

func NewTransferHandler(transfers service.TransferService, receipts service.ReceiptService, challans service.ChallanService, attachments service.AttachmentService) *TransferHandler {
	return &TransferHandler{
		transfers:   transfers,
		receipts:    receipts,
		challans:    challans,
		attachments: attachments,
	}
}

type remarksRequest struct {
	Remarks string `json:"remarks"`
}

// Create handles POST /api/v1/transfers
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req service.CreateTransferInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tr, err := h.transfers.Create(c.UserContext(), req, getUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transfer requested", "data": tr})
}

// List handles GET /api/v1/transfers
func (h *TransferHandler) List(c *fiber.Ctx) error {
	filter, err := parseTransferFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.transfers.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

func parseTransferFilter(c *fiber.Ctx) (repository.TransferFilter, error) {
	filter := repository.TransferFilter{
		Status:      model.TransferStatus(c.Query("status")),
		RequestType: model.RequestType(c.Query("type")),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 20),
	}

	for name, dst := range map[string]**uuid.UUID{"site_id": &filter.SiteID, "machine_id": &filter.MachineID} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
		}
		*dst = &id
	}

	if raw := c.Query("from"); raw != "" {
		from, err := now.ParseInLocation(time.Local, raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid from date")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := now.ParseInLocation(time.Local, raw)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "Invalid to date")
		}
		// A bare date covers the whole day.
		if !strings.ContainsAny(raw, ": T") {
			to = now.With(to).EndOfDay()
		}
		filter.To = &to
	}
	return filter, nil
}

// Get handles GET /api/v1/transfers/:id
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	tr, err := h.transfers.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tr)
}

// Events handles GET /api/v1/transfers/:id/events
func (h *TransferHandler) Events(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	events, err := h.transfers.Events(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

// Approve handles POST /api/v1/transfers/:id/approve
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req remarksRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}
	tr, err := h.transfers.Approve(c.UserContext(), id, getUserID(c), req.Remarks)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer approved", "data": tr})
}

// Reject handles POST /api/v1/transfers/:id/reject
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req remarksRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}
	tr, err := h.transfers.Reject(c.UserContext(), id, getUserID(c), req.Remarks)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer rejected", "data": tr})
}

// Dispatch handles POST /api/v1/transfers/:id/dispatch with the transport details as body.
func (h *TransferHandler) Dispatch(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var td model.TransportDetails
	if err := c.BodyParser(&td); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	tr, err := h.transfers.Dispatch(c.UserContext(), id, getUserID(c), &td)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer dispatched", "data": tr})
}

// Receive handles POST /api/v1/transfers/:id/receive
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.ReceiptInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if siteID, ok := getUserSiteID(c); ok {
		current, err := h.transfers.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		if current.ReceivingSiteID() != siteID {
			return c.Status(403).JSON(fiber.Map{"error": "Forbidden: transfer is received at another site"})
		}
	}
	tr, err := h.receipts.Confirm(c.UserContext(), id, getUserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer received", "data": tr})
}

// UploadAttachment handles POST /api/v1/transfers/:id/attachments (multipart field "file").
func (h *TransferHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file"})
	}
	if header.Size > service.MaxAttachmentSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
	}

	file, err := header.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, err)
	}

	ref, err := h.attachments.Upload(c.UserContext(), id, header.Filename, body, header.Header.Get("Content-Type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "File uploaded", "file": ref})
}

// Challan handles GET /api/v1/transfers/:id/challan
func (h *TransferHandler) Challan(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ch, err := h.challans.Challan(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ch)
}

// ChallanPDF handles GET /api/v1/transfers/:id/challan.pdf
func (h *TransferHandler) ChallanPDF(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	pdf, ch, err := h.challans.PDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+ch.Number+`.pdf"`)
	return c.Send(pdf)
}
