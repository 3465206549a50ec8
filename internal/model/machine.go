package model

import "github.com/google/uuid"

type MachineStatus string

const (
	MachineActive    MachineStatus = "active"
	MachineInTransit MachineStatus = "in_transit"
	MachineSold      MachineStatus = "sold"
	MachineScrapped  MachineStatus = "scrapped"
)

// MachineCategory groups machines (excavator, dumper, crane...).
type MachineCategory struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"notblank"`
	Description string `gorm:"type:text" json:"description"`
}

type Machine struct {
	BaseModel
	Name               string           `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
	Code               string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"notblank"`
	RegistrationNumber string           `gorm:"type:varchar(50)" json:"registration_number"`
	ModelName          string           `gorm:"type:varchar(100)" json:"model"`
	SerialNumber       string           `gorm:"type:varchar(100)" json:"serial_number"`
	CategoryID         *uint            `gorm:"index" json:"category_id,omitempty"`
	Category           *MachineCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	SiteID             uuid.UUID        `gorm:"type:uuid;not null;index" json:"site_id" validate:"uuid_required"`
	Site               *Site            `gorm:"foreignKey:SiteID" json:"site,omitempty" validate:"-"`
	Status             MachineStatus    `gorm:"type:varchar(20);not null;default:active" json:"status"`
}

// IsDisposed reports whether the machine left the fleet through a sale or scrapping.
func (m *Machine) IsDisposed() bool {
	return m.Status == MachineSold || m.Status == MachineScrapped
}
