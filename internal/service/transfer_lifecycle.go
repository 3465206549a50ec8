package service

import (
	"strings"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/pkg/validator"

	"github.com/google/uuid"
)

// CreateTransferInput is what a requester submits. Exactly one of the three party
// payloads must be set, matching RequestType.
type CreateTransferInput struct {
	RequestType       model.RequestType   `json:"request_type"`
	MachineID         uuid.UUID           `json:"machine_id"`
	CurrentSiteID     uuid.UUID           `json:"current_site_id"`
	DestinationSiteID *uuid.UUID          `json:"destination_site_id,omitempty"`
	BuyerDetails      *model.BuyerDetails `json:"buyer_details,omitempty"`
	ScrapDetails      *model.ScrapDetails `json:"scrap_details,omitempty"`
	Reason            string              `json:"reason,omitempty"`
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireActor(actor, field string) error {
	if isBlank(actor) {
		return newValidationError(CodeRequired, "actor is required", field)
	}
	return nil
}

// fieldErrors turns validator failures into a single ValidationError.
func fieldErrors(prefix string, errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	code := CodeInvalidValue
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, prefix+e.FailedField)
		switch e.Tag {
		case "notblank", "required", "uuid_required":
			code = CodeRequired
		}
	}
	msg := "invalid fields"
	if code == CodeRequired {
		msg = "required fields are missing"
	}
	return newValidationError(code, msg, fields...)
}

func checkTransition(tr *model.TransferRequest, to model.TransferStatus) error {
	if !tr.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{From: tr.Status, To: to}
	}
	return nil
}

// buildTransfer validates the request-type specific payload and returns a new pending transfer.
func buildTransfer(in CreateTransferInput, requester string, now time.Time) (*model.TransferRequest, error) {
	if err := requireActor(requester, "requested_by"); err != nil {
		return nil, err
	}
	if !in.RequestType.IsValid() {
		return nil, newValidationError(CodeInvalidValue, "unknown request type "+string(in.RequestType), "request_type")
	}

	var missing []string
	if in.MachineID == uuid.Nil {
		missing = append(missing, "machine_id")
	}
	if in.CurrentSiteID == uuid.Nil {
		missing = append(missing, "current_site_id")
	}
	if len(missing) > 0 {
		return nil, newValidationError(CodeRequired, "required fields are missing", missing...)
	}

	tr := &model.TransferRequest{
		RequestType:   in.RequestType,
		Status:        model.StatusPending,
		Version:       1,
		MachineID:     in.MachineID,
		CurrentSiteID: in.CurrentSiteID,
		Reason:        strings.TrimSpace(in.Reason),
		RequestedBy:   requester,
		RequestedAt:   now,
	}
	tr.CreatedBy = requester
	tr.UpdatedBy = requester

	var unexpected []string
	switch in.RequestType {
	case model.RequestSiteTransfer:
		if in.BuyerDetails != nil {
			unexpected = append(unexpected, "buyer_details")
		}
		if in.ScrapDetails != nil {
			unexpected = append(unexpected, "scrap_details")
		}
		if len(unexpected) > 0 {
			break
		}
		if in.DestinationSiteID == nil || *in.DestinationSiteID == uuid.Nil {
			return nil, newValidationError(CodeRequired, "a site transfer needs a destination site", "destination_site_id")
		}
		if *in.DestinationSiteID == in.CurrentSiteID {
			return nil, newValidationError(CodeSameSite, "destination site must differ from the current site", "destination_site_id")
		}
		dest := *in.DestinationSiteID
		tr.DestinationSiteID = &dest

	case model.RequestSell:
		if in.DestinationSiteID != nil {
			unexpected = append(unexpected, "destination_site_id")
		}
		if in.ScrapDetails != nil {
			unexpected = append(unexpected, "scrap_details")
		}
		if len(unexpected) > 0 {
			break
		}
		if in.BuyerDetails == nil {
			return nil, newValidationError(CodeRequired, "a sale needs buyer details", "buyer_details.buyer_name", "buyer_details.buyer_contact")
		}
		if err := fieldErrors("buyer_details.", validator.ValidateStruct(in.BuyerDetails)); err != nil {
			return nil, err
		}
		tr.BuyerDetails = &model.BuyerDetails{
			BuyerName:    strings.TrimSpace(in.BuyerDetails.BuyerName),
			BuyerContact: strings.TrimSpace(in.BuyerDetails.BuyerContact),
			SaleAmount:   in.BuyerDetails.SaleAmount,
			BuyerAddress: strings.TrimSpace(in.BuyerDetails.BuyerAddress),
		}

	case model.RequestScrap:
		if in.DestinationSiteID != nil {
			unexpected = append(unexpected, "destination_site_id")
		}
		if in.BuyerDetails != nil {
			unexpected = append(unexpected, "buyer_details")
		}
		if len(unexpected) > 0 {
			break
		}
		if in.ScrapDetails == nil {
			return nil, newValidationError(CodeRequired, "scrapping needs a scrap vendor", "scrap_details.scrap_vendor")
		}
		if err := fieldErrors("scrap_details.", validator.ValidateStruct(in.ScrapDetails)); err != nil {
			return nil, err
		}
		tr.ScrapDetails = &model.ScrapDetails{
			ScrapVendor:        strings.TrimSpace(in.ScrapDetails.ScrapVendor),
			ScrapValue:         in.ScrapDetails.ScrapValue,
			ScrapVendorContact: strings.TrimSpace(in.ScrapDetails.ScrapVendorContact),
			ScrapVendorAddress: strings.TrimSpace(in.ScrapDetails.ScrapVendorAddress),
		}
	}

	if len(unexpected) > 0 {
		return nil, newValidationError(CodeUnexpectedPayload, "payload does not belong to a "+in.RequestType.Label()+" request", unexpected...)
	}
	return tr, nil
}

func approveTransfer(tr *model.TransferRequest, approver, remarks string, now time.Time) error {
	if err := checkTransition(tr, model.StatusApproved); err != nil {
		return err
	}
	if err := requireActor(approver, "approved_by"); err != nil {
		return err
	}
	tr.Status = model.StatusApproved
	tr.ApprovedBy = approver
	tr.ApprovedAt = &now
	tr.ApprovalRemarks = strings.TrimSpace(remarks)
	tr.UpdatedBy = approver
	return nil
}

func rejectTransfer(tr *model.TransferRequest, rejecter, remarks string, now time.Time) error {
	if err := checkTransition(tr, model.StatusRejected); err != nil {
		return err
	}
	if err := requireActor(rejecter, "rejected_by"); err != nil {
		return err
	}
	if isBlank(remarks) {
		return newValidationError(CodeRequired, "a rejection needs remarks", "rejection_remarks")
	}
	tr.Status = model.StatusRejected
	tr.RejectedBy = rejecter
	tr.RejectedAt = &now
	tr.RejectionRemarks = strings.TrimSpace(remarks)
	tr.UpdatedBy = rejecter
	return nil
}

func dispatchTransfer(tr *model.TransferRequest, dispatcher string, td *model.TransportDetails, now time.Time) error {
	if err := checkTransition(tr, model.StatusDispatched); err != nil {
		return err
	}
	if err := requireActor(dispatcher, "dispatched_by"); err != nil {
		return err
	}
	if td == nil {
		return newValidationError(CodeRequired, "transport details are required", "vehicle_number", "driver_name", "mobile_number")
	}
	if err := fieldErrors("", validator.ValidateStruct(td)); err != nil {
		return err
	}

	tr.TransportDetails = &model.TransportDetails{
		TransferRequestID: tr.ID,
		VehicleNumber:     strings.TrimSpace(td.VehicleNumber),
		DriverName:        strings.TrimSpace(td.DriverName),
		MobileNumber:      strings.TrimSpace(td.MobileNumber),
		FuelBalance:       td.FuelBalance,
		KmsTravelled:      td.KmsTravelled,
		TickMarks:         append([]string{}, td.TickMarks...),
		AttachedFiles:     append([]string{}, td.AttachedFiles...),
	}
	tr.Status = model.StatusDispatched
	tr.DispatchedBy = dispatcher
	tr.DispatchedAt = &now
	tr.UpdatedBy = dispatcher
	return nil
}

func receiveTransfer(tr *model.TransferRequest, receiver string, condition model.ReceiptCondition, remarks string, now time.Time) error {
	if err := checkTransition(tr, model.StatusReceived); err != nil {
		return err
	}
	if err := requireActor(receiver, "received_by"); err != nil {
		return err
	}
	if condition == "" {
		return newValidationError(CodeRequired, "receipt condition is required", "condition")
	}
	if !condition.IsValid() {
		return newValidationError(CodeInvalidValue, "unknown receipt condition "+string(condition), "condition")
	}
	if condition != model.ConditionGood && isBlank(remarks) {
		return newValidationError(CodeRequired, "remarks are required when the machine is not in good condition", "final_remarks")
	}
	tr.Status = model.StatusReceived
	tr.ReceivedBy = receiver
	tr.ReceivedAt = &now
	tr.FinalRemarks = strings.TrimSpace(remarks)
	tr.Condition = condition
	tr.UpdatedBy = receiver
	return nil
}
