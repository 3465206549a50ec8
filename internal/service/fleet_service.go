package service

import (
	"context"
	"errors"
	"strings"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/pkg/validator"

	"github.com/apex/log"
	"github.com/google/uuid"
)

var (
	ErrMachineNotFound = errors.New("machine not found")
	ErrSiteNotFound    = errors.New("site not found")
)

const CodeDuplicate = "Duplicate"

// FleetService manages the machines and sites that transfers refer to.
type FleetService interface {
	CreateSite(ctx context.Context, site *model.Site, actor string) error
	ListSites(ctx context.Context) ([]model.Site, error)
	CreateMachine(ctx context.Context, machine *model.Machine, actor string) error
	GetMachine(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	ListMachines(ctx context.Context, filter repository.MachineFilter) ([]model.Machine, error)
}

type fleetService struct {
	machines repository.MachineRepository
	sites    repository.SiteRepository
}

func NewFleetService(machines repository.MachineRepository, sites repository.SiteRepository) FleetService {
	return &fleetService{machines: machines, sites: sites}
}

func (s *fleetService) CreateSite(ctx context.Context, site *model.Site, actor string) error {
	site.Code = strings.ToUpper(strings.TrimSpace(site.Code))
	if err := fieldErrors("", validator.ValidateStruct(site)); err != nil {
		return err
	}
	if _, err := s.sites.FindByCode(ctx, site.Code); err == nil {
		return newValidationError(CodeDuplicate, "site code already exists", "code")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	site.ID = uuid.Nil
	site.CreatedBy = actor
	site.UpdatedBy = actor
	if err := s.sites.Create(ctx, site); err != nil {
		return err
	}
	log.WithFields(log.Fields{"site": site.Code, "actor": actor}).Info("site created")
	return nil
}

func (s *fleetService) ListSites(ctx context.Context) ([]model.Site, error) {
	return s.sites.FindAll(ctx)
}

func (s *fleetService) CreateMachine(ctx context.Context, machine *model.Machine, actor string) error {
	machine.Code = strings.ToUpper(strings.TrimSpace(machine.Code))
	if err := fieldErrors("", validator.ValidateStruct(machine)); err != nil {
		return err
	}
	if _, err := s.sites.FindByID(ctx, machine.SiteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newValidationError(CodeNotFound, "site does not exist", "site_id")
		}
		return err
	}
	if _, err := s.machines.FindByCode(ctx, machine.Code); err == nil {
		return newValidationError(CodeDuplicate, "machine code already exists", "code")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	machine.ID = uuid.Nil
	machine.Status = model.MachineActive
	machine.CreatedBy = actor
	machine.UpdatedBy = actor
	if err := s.machines.Create(ctx, machine); err != nil {
		return err
	}
	log.WithFields(log.Fields{"machine": machine.Code, "site_id": machine.SiteID, "actor": actor}).Info("machine created")
	return nil
}

func (s *fleetService) GetMachine(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	machine, err := s.machines.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMachineNotFound
	}
	return machine, err
}

func (s *fleetService) ListMachines(ctx context.Context, filter repository.MachineFilter) ([]model.Machine, error) {
	return s.machines.FindAll(ctx, filter)
}
