package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/notify"
	"go-fleet-ws/internal/repository"

	"github.com/apex/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiveInput carries the receiver's findings. Consumption is filled by the receipt confirmer.
type ReceiveInput struct {
	Condition   model.ReceiptCondition `json:"condition"`
	Remarks     string                 `json:"final_remarks"`
	Consumption *model.ConsumptionLog  `json:"-"`
}

type TransferService interface {
	Create(ctx context.Context, in CreateTransferInput, requesterID string) (*model.TransferRequest, error)
	Approve(ctx context.Context, id uuid.UUID, approverID, remarks string) (*model.TransferRequest, error)
	Reject(ctx context.Context, id uuid.UUID, rejecterID, remarks string) (*model.TransferRequest, error)
	Dispatch(ctx context.Context, id uuid.UUID, dispatcherID string, td *model.TransportDetails) (*model.TransferRequest, error)
	Receive(ctx context.Context, id uuid.UUID, receiverID string, in ReceiveInput) (*model.TransferRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*model.TransferRequest, error)
	List(ctx context.Context, filter repository.TransferFilter) (*repository.TransferPage, error)
	Events(ctx context.Context, id uuid.UUID) ([]model.TransferEvent, error)
}

type transferService struct {
	db        *gorm.DB
	transfers repository.TransferRepository
	machines  repository.MachineRepository
	sites     repository.SiteRepository
	notifier  notify.Notifier
	now       func() time.Time
}

func NewTransferService(db *gorm.DB, transfers repository.TransferRepository, machines repository.MachineRepository, sites repository.SiteRepository, notifier notify.Notifier) TransferService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &transferService{
		db:        db,
		transfers: transfers,
		machines:  machines,
		sites:     sites,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *transferService) Create(ctx context.Context, in CreateTransferInput, requesterID string) (*model.TransferRequest, error) {
	tr, err := buildTransfer(in, requesterID, s.now())
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkPlacement(tx, tr); err != nil {
			return err
		}
		if err := s.transfers.Create(tx, tr); err != nil {
			return err
		}
		return s.transfers.AppendEvent(tx, &model.TransferEvent{
			TransferRequestID: tr.ID,
			EventType:         "created",
			ToStatus:          model.StatusPending,
			Actor:             requesterID,
			Remarks:           tr.Reason,
			Version:           tr.Version,
		})
	})
	if err != nil {
		return nil, err
	}

	created, err := s.transfers.FindByID(ctx, tr.ID)
	if err != nil {
		return nil, err
	}
	s.publish(created, "created", requesterID)
	return created, nil
}

// checkPlacement verifies the referenced machine and sites and that the machine is free to move.
func (s *transferService) checkPlacement(tx *gorm.DB, tr *model.TransferRequest) error {
	if _, err := s.sites.FindTx(tx, tr.CurrentSiteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError(CodeNotFound, "current site does not exist", "current_site_id")
		}
		return err
	}
	if tr.DestinationSiteID != nil {
		if _, err := s.sites.FindTx(tx, *tr.DestinationSiteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newValidationError(CodeNotFound, "destination site does not exist", "destination_site_id")
			}
			return err
		}
	}

	machine, err := s.machines.FindTx(tx, tr.MachineID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError(CodeNotFound, "machine does not exist", "machine_id")
		}
		return err
	}
	if machine.Status != model.MachineActive {
		return newValidationError(CodeMachineBusy, fmt.Sprintf("machine %s is %s", machine.Code, machine.Status), "machine_id")
	}
	if machine.SiteID != tr.CurrentSiteID {
		return newValidationError(CodeSiteMismatch, fmt.Sprintf("machine %s is not at the current site", machine.Code), "current_site_id")
	}

	open, err := s.transfers.HasOpenTransfer(tx, machine.ID)
	if err != nil {
		return err
	}
	if open {
		return newValidationError(CodeMachineBusy, fmt.Sprintf("machine %s already has an open transfer", machine.Code), "machine_id")
	}
	return nil
}

func (s *transferService) Approve(ctx context.Context, id uuid.UUID, approverID, remarks string) (*model.TransferRequest, error) {
	return s.transition(ctx, id, transitionStep{
		event:   "approved",
		target:  model.StatusApproved,
		actor:   approverID,
		remarks: remarks,
		apply: func(tr *model.TransferRequest, now time.Time) error {
			return approveTransfer(tr, approverID, remarks, now)
		},
	})
}

func (s *transferService) Reject(ctx context.Context, id uuid.UUID, rejecterID, remarks string) (*model.TransferRequest, error) {
	return s.transition(ctx, id, transitionStep{
		event:   "rejected",
		target:  model.StatusRejected,
		actor:   rejecterID,
		remarks: remarks,
		apply: func(tr *model.TransferRequest, now time.Time) error {
			return rejectTransfer(tr, rejecterID, remarks, now)
		},
	})
}

func (s *transferService) Dispatch(ctx context.Context, id uuid.UUID, dispatcherID string, td *model.TransportDetails) (*model.TransferRequest, error) {
	return s.transition(ctx, id, transitionStep{
		event:  "dispatched",
		target: model.StatusDispatched,
		actor:  dispatcherID,
		apply: func(tr *model.TransferRequest, now time.Time) error {
			return dispatchTransfer(tr, dispatcherID, td, now)
		},
		persist: func(tx *gorm.DB, tr *model.TransferRequest) error {
			if err := s.transfers.AttachTransport(tx, tr.TransportDetails); err != nil {
				return err
			}
			return s.machines.UpdatePlacement(tx, tr.MachineID, tr.CurrentSiteID, model.MachineInTransit, dispatcherID)
		},
	})
}

func (s *transferService) Receive(ctx context.Context, id uuid.UUID, receiverID string, in ReceiveInput) (*model.TransferRequest, error) {
	return s.transition(ctx, id, transitionStep{
		event:   "received",
		target:  model.StatusReceived,
		actor:   receiverID,
		remarks: in.Remarks,
		apply: func(tr *model.TransferRequest, now time.Time) error {
			return receiveTransfer(tr, receiverID, in.Condition, in.Remarks, now)
		},
		persist: func(tx *gorm.DB, tr *model.TransferRequest) error {
			if in.Consumption != nil {
				reading := *in.Consumption
				reading.TransferRequestID = tr.ID
				reading.RecordedBy = receiverID
				if err := s.transfers.AttachConsumption(tx, &reading); err != nil {
					return err
				}
			}
			siteID, status := placementAfterReceipt(tr)
			return s.machines.UpdatePlacement(tx, tr.MachineID, siteID, status, receiverID)
		},
	})
}

// placementAfterReceipt returns where the machine ends up once the transfer is received.
func placementAfterReceipt(tr *model.TransferRequest) (uuid.UUID, model.MachineStatus) {
	switch tr.RequestType {
	case model.RequestSell:
		return tr.ReceivingSiteID(), model.MachineSold
	case model.RequestScrap:
		return tr.ReceivingSiteID(), model.MachineScrapped
	default:
		return tr.ReceivingSiteID(), model.MachineActive
	}
}

type transitionStep struct {
	event   string
	target  model.TransferStatus
	actor   string
	remarks string
	apply   func(tr *model.TransferRequest, now time.Time) error
	persist func(tx *gorm.DB, tr *model.TransferRequest) error
}

// transition loads the stored transfer, applies step and writes it back with a version check,
// all in one database transaction. Listeners are told only after commit.
func (s *transferService) transition(ctx context.Context, id uuid.UUID, step transitionStep) (*model.TransferRequest, error) {
	var (
		result  *model.TransferRequest
		from    model.TransferStatus
		changed bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tr, err := s.transfers.FindTx(tx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTransferNotFound
			}
			return err
		}

		// A retry by the same actor after a lost response is answered with the stored record.
		if tr.Status == step.target && !isBlank(step.actor) && tr.ActorFor(step.target) == step.actor {
			result = tr
			return nil
		}

		from = tr.Status
		expected := tr.Version
		if err := step.apply(tr, s.now()); err != nil {
			return err
		}
		if err := s.transfers.Save(tx, tr, expected); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return &InvalidTransitionError{From: from, To: step.target, Stale: true}
			}
			return err
		}
		if step.persist != nil {
			if err := step.persist(tx, tr); err != nil {
				return err
			}
		}
		if err := s.transfers.AppendEvent(tx, &model.TransferEvent{
			TransferRequestID: tr.ID,
			EventType:         step.event,
			FromStatus:        from,
			ToStatus:          step.target,
			Actor:             step.actor,
			Remarks:           step.remarks,
			Version:           tr.Version,
		}); err != nil {
			return err
		}

		result = tr
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return result, nil
	}

	log.WithFields(log.Fields{
		"transfer_id": id,
		"from":        from,
		"to":          step.target,
		"actor":       step.actor,
		"version":     result.Version,
	}).Info("transfer status changed")

	if fresh, err := s.transfers.FindByID(ctx, id); err == nil {
		result = fresh
	}
	s.publish(result, step.event, step.actor)
	return result, nil
}

func (s *transferService) publish(tr *model.TransferRequest, event, actor string) {
	machineCode := ""
	if tr.Machine != nil {
		machineCode = tr.Machine.Code
	}
	s.notifier.Notify(notify.Event{
		Type:        "transfer_" + event,
		TransferID:  tr.ID,
		RequestType: string(tr.RequestType),
		Status:      string(tr.Status),
		Version:     tr.Version,
		MachineCode: machineCode,
		Actor:       actor,
		Message:     fmt.Sprintf("%s request for machine %s was %s", tr.RequestType.Label(), machineCode, event),
		At:          s.now(),
	})
}

func (s *transferService) Get(ctx context.Context, id uuid.UUID) (*model.TransferRequest, error) {
	tr, err := s.transfers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTransferNotFound
	}
	return tr, err
}

func (s *transferService) List(ctx context.Context, filter repository.TransferFilter) (*repository.TransferPage, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, newValidationError(CodeInvalidValue, "unknown status "+string(filter.Status), "status")
	}
	if filter.RequestType != "" && !filter.RequestType.IsValid() {
		return nil, newValidationError(CodeInvalidValue, "unknown request type "+string(filter.RequestType), "type")
	}
	return s.transfers.List(ctx, filter)
}

func (s *transferService) Events(ctx context.Context, id uuid.UUID) ([]model.TransferEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.transfers.Events(ctx, id)
}
