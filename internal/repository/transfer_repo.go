package repository

import (
	"context"
	"time"

	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TransferFilter struct {
	Status      model.TransferStatus
	RequestType model.RequestType
	SiteID      *uuid.UUID // matches either end of a site transfer
	MachineID   *uuid.UUID
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

type TransferPage struct {
	Items []model.TransferRequest `json:"items"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type StatusCount struct {
	Status model.TransferStatus `json:"status"`
	Count  int64                `json:"count"`
}

type SiteCount struct {
	SiteID uuid.UUID `json:"site_id"`
	Count  int64     `json:"count"`
}

type TransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransferRequest, error)
	FindTx(tx *gorm.DB, id uuid.UUID) (*model.TransferRequest, error)
	Create(tx *gorm.DB, tr *model.TransferRequest) error
	Save(tx *gorm.DB, tr *model.TransferRequest, expectedVersion int) error
	AttachTransport(tx *gorm.DB, td *model.TransportDetails) error
	AttachConsumption(tx *gorm.DB, c *model.ConsumptionLog) error
	HasOpenTransfer(tx *gorm.DB, machineID uuid.UUID) (bool, error)
	List(ctx context.Context, filter TransferFilter) (*TransferPage, error)
	AppendEvent(tx *gorm.DB, ev *model.TransferEvent) error
	Events(ctx context.Context, transferID uuid.UUID) ([]model.TransferEvent, error)
	CountByStatus(ctx context.Context, since *time.Time) ([]StatusCount, error)
	CountOpenBySite(ctx context.Context) ([]SiteCount, error)
	CountReceivedSince(ctx context.Context, since time.Time) (int64, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Machine").
		Preload("CurrentSite").
		Preload("DestinationSite").
		Preload("BuyerDetails").
		Preload("ScrapDetails").
		Preload("TransportDetails").
		Preload("Consumption")
}

func (r *transferRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.TransferRequest, error) {
	return r.FindTx(r.db.WithContext(ctx), id)
}

func (r *transferRepo) FindTx(tx *gorm.DB, id uuid.UUID) (*model.TransferRequest, error) {
	var tr model.TransferRequest
	if err := withDetails(tx).First(&tr, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "find transfer %s", id)
	}
	return &tr, nil
}

func (r *transferRepo) Create(tx *gorm.DB, tr *model.TransferRequest) error {
	// Referenced machine and sites already exist; only the payload rows are new.
	err := tx.Omit("Machine", "CurrentSite", "DestinationSite").Create(tr).Error
	return wrap(err, "create transfer for machine %s", tr.MachineID)
}

// Save writes the lifecycle columns only if the stored version still equals expectedVersion.
// On success tr.Version is advanced.
func (r *transferRepo) Save(tx *gorm.DB, tr *model.TransferRequest, expectedVersion int) error {
	next := expectedVersion + 1
	res := tx.Model(&model.TransferRequest{}).
		Where("id = ? AND version = ?", tr.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":            tr.Status,
			"approved_by":       tr.ApprovedBy,
			"approved_at":       tr.ApprovedAt,
			"approval_remarks":  tr.ApprovalRemarks,
			"rejected_by":       tr.RejectedBy,
			"rejected_at":       tr.RejectedAt,
			"rejection_remarks": tr.RejectionRemarks,
			"dispatched_by":     tr.DispatchedBy,
			"dispatched_at":     tr.DispatchedAt,
			"received_by":       tr.ReceivedBy,
			"received_at":       tr.ReceivedAt,
			"final_remarks":     tr.FinalRemarks,
			"condition":         tr.Condition,
			"updated_by":        tr.UpdatedBy,
			"updated_at":        time.Now(),
			"version":           next,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "save transfer %s", tr.ID)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	tr.Version = next
	return nil
}

func (r *transferRepo) AttachTransport(tx *gorm.DB, td *model.TransportDetails) error {
	return wrap(tx.Create(td).Error, "attach transport to transfer %s", td.TransferRequestID)
}

func (r *transferRepo) AttachConsumption(tx *gorm.DB, c *model.ConsumptionLog) error {
	return wrap(tx.Create(c).Error, "attach consumption to transfer %s", c.TransferRequestID)
}

func openStatuses() []model.TransferStatus {
	var open []model.TransferStatus
	for _, s := range model.GetAllTransferStatuses() {
		if s.IsOpen() {
			open = append(open, s)
		}
	}
	return open
}

func (r *transferRepo) HasOpenTransfer(tx *gorm.DB, machineID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.TransferRequest{}).
		Where("machine_id = ? AND status IN ?", machineID, openStatuses()).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "count open transfers for machine %s", machineID)
	}
	return count > 0, nil
}

func (r *transferRepo) List(ctx context.Context, filter TransferFilter) (*TransferPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	query := r.db.WithContext(ctx).Model(&model.TransferRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RequestType != "" {
		query = query.Where("request_type = ?", filter.RequestType)
	}
	if filter.SiteID != nil {
		query = query.Where("(current_site_id = ? OR destination_site_id = ?)", *filter.SiteID, *filter.SiteID)
	}
	if filter.MachineID != nil {
		query = query.Where("machine_id = ?", *filter.MachineID)
	}
	if filter.From != nil {
		query = query.Where("requested_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("requested_at <= ?", *filter.To)
	}

	query = query.Session(&gorm.Session{})
	page := &TransferPage{Page: filter.Page, Limit: filter.Limit}
	if err := query.Count(&page.Total).Error; err != nil {
		return nil, errors.Wrap(err, "count transfers")
	}

	err := withDetails(query).
		Order("requested_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&page.Items).Error
	if err != nil {
		return nil, errors.Wrap(err, "list transfers")
	}
	return page, nil
}

func (r *transferRepo) AppendEvent(tx *gorm.DB, ev *model.TransferEvent) error {
	return wrap(tx.Create(ev).Error, "append %s event to transfer %s", ev.EventType, ev.TransferRequestID)
}

func (r *transferRepo) Events(ctx context.Context, transferID uuid.UUID) ([]model.TransferEvent, error) {
	var events []model.TransferEvent
	err := r.db.WithContext(ctx).
		Where("transfer_request_id = ?", transferID).
		Order("version ASC").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list events of transfer %s", transferID)
	}
	return events, nil
}

func (r *transferRepo) CountByStatus(ctx context.Context, since *time.Time) ([]StatusCount, error) {
	var counts []StatusCount
	query := r.db.WithContext(ctx).Model(&model.TransferRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if since != nil {
		query = query.Where("requested_at >= ?", *since)
	}
	if err := query.Scan(&counts).Error; err != nil {
		return nil, errors.Wrap(err, "count transfers by status")
	}
	return counts, nil
}

func (r *transferRepo) CountOpenBySite(ctx context.Context) ([]SiteCount, error) {
	var counts []SiteCount
	err := r.db.WithContext(ctx).Model(&model.TransferRequest{}).
		Select("current_site_id AS site_id, COUNT(*) AS count").
		Where("status IN ?", openStatuses()).
		Group("current_site_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count open transfers by site")
	}
	return counts, nil
}

func (r *transferRepo) CountReceivedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TransferRequest{}).
		Where("status = ? AND received_at >= ?", model.StatusReceived, since).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count received transfers")
	}
	return count, nil
}
