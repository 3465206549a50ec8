package repository

import (
	"context"

	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MachineFilter struct {
	SiteID *uuid.UUID
	Status model.MachineStatus
}

type MachineRepository interface {
	Create(ctx context.Context, machine *model.Machine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	FindByCode(ctx context.Context, code string) (*model.Machine, error)
	FindAll(ctx context.Context, filter MachineFilter) ([]model.Machine, error)
	FindTx(tx *gorm.DB, id uuid.UUID) (*model.Machine, error)
	UpdatePlacement(tx *gorm.DB, id, siteID uuid.UUID, status model.MachineStatus, updatedBy string) error
}

type machineRepo struct {
	db *gorm.DB
}

func NewMachineRepo(db *gorm.DB) MachineRepository {
	return &machineRepo{db}
}

func (r *machineRepo) Create(ctx context.Context, machine *model.Machine) error {
	return wrap(r.db.WithContext(ctx).Omit("Site", "Category").Create(machine).Error, "create machine %s", machine.Code)
}

func (r *machineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	var machine model.Machine
	err := r.db.WithContext(ctx).Preload("Site").Preload("Category").First(&machine, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err, "find machine %s", id)
	}
	return &machine, nil
}

func (r *machineRepo) FindByCode(ctx context.Context, code string) (*model.Machine, error) {
	var machine model.Machine
	if err := r.db.WithContext(ctx).First(&machine, "code = ?", code).Error; err != nil {
		return nil, wrap(err, "find machine by code %s", code)
	}
	return &machine, nil
}

func (r *machineRepo) FindAll(ctx context.Context, filter MachineFilter) ([]model.Machine, error) {
	var machines []model.Machine
	query := r.db.WithContext(ctx).Preload("Site").Preload("Category")
	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Order("code ASC").Find(&machines).Error; err != nil {
		return nil, wrap(err, "list machines")
	}
	return machines, nil
}

func (r *machineRepo) FindTx(tx *gorm.DB, id uuid.UUID) (*model.Machine, error) {
	var machine model.Machine
	if err := tx.First(&machine, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find machine %s", id)
	}
	return &machine, nil
}

// UpdatePlacement moves a machine to siteID with the given status inside tx.
func (r *machineRepo) UpdatePlacement(tx *gorm.DB, id, siteID uuid.UUID, status model.MachineStatus, updatedBy string) error {
	err := tx.Model(&model.Machine{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"site_id":    siteID,
			"status":     status,
			"updated_by": updatedBy,
		}).Error
	return wrap(err, "update placement of machine %s", id)
}
