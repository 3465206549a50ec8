package service

import (
	"context"
	"errors"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptInput is what the receiving site submits. Diesel readings are optional as a group:
// when Closing is nil no consumption is recorded.
type ReceiptInput struct {
	Condition model.ReceiptCondition `json:"condition"`
	Remarks   string                 `json:"final_remarks"`
	Opening   *decimal.Decimal       `json:"opening,omitempty"`
	Issued    decimal.Decimal        `json:"issued"`
	Closing   *decimal.Decimal       `json:"closing,omitempty"`
}

func (in ReceiptInput) hasReadings() bool {
	return in.Opening != nil || in.Closing != nil || !in.Issued.IsZero()
}

type ReceiptService interface {
	Confirm(ctx context.Context, id uuid.UUID, receiverID string, in ReceiptInput) (*model.TransferRequest, error)
}

type receiptService struct {
	transfers TransferService
	repo      repository.TransferRepository
}

func NewReceiptService(transfers TransferService, repo repository.TransferRepository) ReceiptService {
	return &receiptService{transfers: transfers, repo: repo}
}

// Confirm records the diesel consumption of the trip and then receives the transfer.
func (s *receiptService) Confirm(ctx context.Context, id uuid.UUID, receiverID string, in ReceiptInput) (*model.TransferRequest, error) {
	tr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}

	receive := ReceiveInput{Condition: in.Condition, Remarks: in.Remarks}

	// Readings only matter for a receipt that will actually happen; anything else is left
	// to Receive to accept as a retry or to refuse as a transition error.
	if tr.Status.CanTransitionTo(model.StatusReceived) && in.hasReadings() {
		opening := decimal.Zero
		if tr.TransportDetails != nil {
			opening = tr.TransportDetails.FuelBalance
		}
		if in.Opening != nil {
			opening = *in.Opening
		}
		if in.Closing == nil {
			return nil, newValidationError(CodeRequired, "closing reading is required", "closing")
		}
		consumed, err := computeConsumption(opening, in.Issued, *in.Closing)
		if err != nil {
			return nil, err
		}
		receive.Consumption = &model.ConsumptionLog{
			Opening:  opening,
			Issued:   in.Issued,
			Closing:  *in.Closing,
			Consumed: consumed,
		}
	}

	return s.transfers.Receive(ctx, id, receiverID, receive)
}

// computeConsumption returns opening + issued - closing.
func computeConsumption(opening, issued, closing decimal.Decimal) (decimal.Decimal, error) {
	var negative []string
	if opening.IsNegative() {
		negative = append(negative, "opening")
	}
	if issued.IsNegative() {
		negative = append(negative, "issued")
	}
	if closing.IsNegative() {
		negative = append(negative, "closing")
	}
	if len(negative) > 0 {
		return decimal.Zero, newValidationError(CodeConsumption, "readings cannot be negative", negative...)
	}

	consumed := opening.Add(issued).Sub(closing)
	if consumed.IsNegative() {
		return decimal.Zero, newValidationError(CodeConsumption, "closing reading exceeds opening plus issued", "closing")
	}
	return consumed, nil
}
