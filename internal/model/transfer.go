package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// RequestType decides which party payload a transfer carries. It never changes after creation.
type RequestType string

const (
	RequestSiteTransfer RequestType = "site_transfer"
	RequestSell         RequestType = "sell"
	RequestScrap        RequestType = "scrap"
)

func (t RequestType) IsValid() bool {
	switch t {
	case RequestSiteTransfer, RequestSell, RequestScrap:
		return true
	default:
		return false
	}
}

// Label is the printable name used on challans and notifications.
func (t RequestType) Label() string {
	switch t {
	case RequestSiteTransfer:
		return "Site Transfer"
	case RequestSell:
		return "Sell"
	case RequestScrap:
		return "Scrap"
	default:
		return string(t)
	}
}

type TransferStatus string

const (
	StatusPending    TransferStatus = "pending"
	StatusApproved   TransferStatus = "approved"
	StatusRejected   TransferStatus = "rejected"
	StatusDispatched TransferStatus = "dispatched"
	StatusReceived   TransferStatus = "received"
)

// transferTransitions lists the statuses reachable from each status.
var transferTransitions = map[TransferStatus][]TransferStatus{
	StatusPending:    {StatusApproved, StatusRejected},
	StatusApproved:   {StatusDispatched},
	StatusDispatched: {StatusReceived},
}

func (s TransferStatus) String() string {
	return string(s)
}

func (s TransferStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusDispatched, StatusReceived:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether next is directly reachable from s.
func (s TransferStatus) CanTransitionTo(next TransferStatus) bool {
	for _, allowed := range transferTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for rejected and received transfers.
func (s TransferStatus) IsTerminal() bool {
	return len(transferTransitions[s]) == 0
}

// IsOpen returns true while the machine is still tied up by the transfer.
func (s TransferStatus) IsOpen() bool {
	return s == StatusPending || s == StatusApproved || s == StatusDispatched
}

// HasTransport returns true for statuses that must carry transport details.
func (s TransferStatus) HasTransport() bool {
	return s == StatusDispatched || s == StatusReceived
}

// CanPrintChallan returns true once the transfer has been approved.
func (s TransferStatus) CanPrintChallan() bool {
	return s == StatusApproved || s == StatusDispatched || s == StatusReceived
}

// GetAllTransferStatuses returns every status in lifecycle order.
func GetAllTransferStatuses() []TransferStatus {
	return []TransferStatus{StatusPending, StatusApproved, StatusRejected, StatusDispatched, StatusReceived}
}

type ReceiptCondition string

const (
	ConditionGood         ReceiptCondition = "good"
	ConditionMinorDamage  ReceiptCondition = "minor_damage"
	ConditionMajorDamage  ReceiptCondition = "major_damage"
	ConditionMissingParts ReceiptCondition = "missing_parts"
)

func (c ReceiptCondition) IsValid() bool {
	switch c {
	case ConditionGood, ConditionMinorDamage, ConditionMajorDamage, ConditionMissingParts:
		return true
	default:
		return false
	}
}

// TransferRequest records the movement, sale or scrapping of a machine.
type TransferRequest struct {
	BaseModel
	RequestType RequestType    `gorm:"type:varchar(20);not null;index" json:"request_type"`
	Status      TransferStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Version     int            `gorm:"not null;default:1" json:"version"`

	MachineID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"machine_id"`
	Machine           *Machine   `gorm:"foreignKey:MachineID" json:"machine,omitempty"`
	CurrentSiteID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"current_site_id"`
	CurrentSite       *Site      `gorm:"foreignKey:CurrentSiteID" json:"current_site,omitempty"`
	DestinationSiteID *uuid.UUID `gorm:"type:uuid;index" json:"destination_site_id,omitempty"`
	DestinationSite   *Site      `gorm:"foreignKey:DestinationSiteID" json:"destination_site,omitempty"`

	BuyerDetails *BuyerDetails `gorm:"foreignKey:TransferRequestID" json:"buyer_details,omitempty"`
	ScrapDetails *ScrapDetails `gorm:"foreignKey:TransferRequestID" json:"scrap_details,omitempty"`
	Reason       string        `gorm:"type:text" json:"reason,omitempty"`

	RequestedBy string    `gorm:"type:varchar(255);not null" json:"requested_by"`
	RequestedAt time.Time `gorm:"not null" json:"requested_at"`

	ApprovedBy      string     `gorm:"type:varchar(255)" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovalRemarks string     `gorm:"type:text" json:"approval_remarks,omitempty"`

	RejectedBy       string     `gorm:"type:varchar(255)" json:"rejected_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectionRemarks string     `gorm:"type:text" json:"rejection_remarks,omitempty"`

	TransportDetails *TransportDetails `gorm:"foreignKey:TransferRequestID" json:"transport_details,omitempty"`
	DispatchedBy     string            `gorm:"type:varchar(255)" json:"dispatched_by,omitempty"`
	DispatchedAt     *time.Time        `json:"dispatched_at,omitempty"`

	ReceivedBy   string           `gorm:"type:varchar(255)" json:"received_by,omitempty"`
	ReceivedAt   *time.Time       `json:"received_at,omitempty"`
	FinalRemarks string           `gorm:"type:text" json:"final_remarks,omitempty"`
	Condition    ReceiptCondition `gorm:"type:varchar(20)" json:"condition,omitempty"`
	Consumption  *ConsumptionLog  `gorm:"foreignKey:TransferRequestID" json:"consumption,omitempty"`
}

func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// ActorFor returns who performed the transition into status, or "" when it has not happened.
func (t *TransferRequest) ActorFor(status TransferStatus) string {
	switch status {
	case StatusPending:
		return t.RequestedBy
	case StatusApproved:
		return t.ApprovedBy
	case StatusRejected:
		return t.RejectedBy
	case StatusDispatched:
		return t.DispatchedBy
	case StatusReceived:
		return t.ReceivedBy
	default:
		return ""
	}
}

// ReceivingSiteID is the site that confirms receipt: the destination of a site transfer,
// otherwise the site the machine leaves from.
func (t *TransferRequest) ReceivingSiteID() uuid.UUID {
	if t.RequestType == RequestSiteTransfer && t.DestinationSiteID != nil {
		return *t.DestinationSiteID
	}
	return t.CurrentSiteID
}

// BuyerDetails is the party payload of a sell request.
type BuyerDetails struct {
	ID                uint            `gorm:"primaryKey" json:"-"`
	TransferRequestID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	BuyerName         string          `gorm:"type:varchar(255);not null" json:"buyer_name" validate:"notblank"`
	BuyerContact      string          `gorm:"type:varchar(50);not null" json:"buyer_contact" validate:"notblank"`
	SaleAmount        decimal.Decimal `gorm:"type:decimal(20,2)" json:"sale_amount" validate:"gte=0"`
	BuyerAddress      string          `gorm:"type:text" json:"buyer_address,omitempty"`
}

// ScrapDetails is the party payload of a scrap request.
type ScrapDetails struct {
	ID                 uint            `gorm:"primaryKey" json:"-"`
	TransferRequestID  uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	ScrapVendor        string          `gorm:"type:varchar(255);not null" json:"scrap_vendor" validate:"notblank"`
	ScrapValue         decimal.Decimal `gorm:"type:decimal(20,2)" json:"scrap_value" validate:"gte=0"`
	ScrapVendorContact string          `gorm:"type:varchar(50)" json:"scrap_vendor_contact,omitempty"`
	ScrapVendorAddress string          `gorm:"type:text" json:"scrap_vendor_address,omitempty"`
}

// TransportDetails is attached on dispatch. Vehicle, driver and mobile are mandatory.
type TransportDetails struct {
	ID                uint                        `gorm:"primaryKey" json:"-"`
	TransferRequestID uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	VehicleNumber     string                      `gorm:"type:varchar(30);not null" json:"vehicle_number" validate:"notblank"`
	DriverName        string                      `gorm:"type:varchar(255);not null" json:"driver_name" validate:"notblank"`
	MobileNumber      string                      `gorm:"type:varchar(20);not null" json:"mobile_number" validate:"notblank"`
	FuelBalance       decimal.Decimal             `gorm:"type:decimal(12,2)" json:"fuel_balance" validate:"gte=0"`
	KmsTravelled      decimal.Decimal             `gorm:"type:decimal(12,2)" json:"kms_travelled" validate:"gte=0"`
	TickMarks         datatypes.JSONSlice[string] `json:"tick_marks"`
	AttachedFiles     datatypes.JSONSlice[string] `json:"attached_files"`
}

// ConsumptionLog is the diesel reading taken when the machine is received.
type ConsumptionLog struct {
	ID                uint            `gorm:"primaryKey" json:"-"`
	TransferRequestID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Opening           decimal.Decimal `gorm:"type:decimal(12,2)" json:"opening"`
	Issued            decimal.Decimal `gorm:"type:decimal(12,2)" json:"issued"`
	Closing           decimal.Decimal `gorm:"type:decimal(12,2)" json:"closing"`
	Consumed          decimal.Decimal `gorm:"type:decimal(12,2)" json:"consumed"`
	RecordedBy        string          `gorm:"type:varchar(255)" json:"recorded_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TransferEvent is one row of a transfer's status history.
type TransferEvent struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransferRequestID uuid.UUID      `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	EventType         string         `gorm:"type:varchar(20);not null" json:"event_type"`
	FromStatus        TransferStatus `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus          TransferStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	Actor             string         `gorm:"type:varchar(255);not null" json:"actor"`
	Remarks           string         `gorm:"type:text" json:"remarks,omitempty"`
	Version           int            `gorm:"not null" json:"version"`
	CreatedAt         time.Time      `json:"created_at"`
}

func (TransferEvent) TableName() string {
	return "transfer_events"
}
