package model

// Site is a project or yard location that holds machines.
type Site struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
	Code          string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"notblank"`
	Address       string `gorm:"type:text" json:"address"`
	ManagerName   string `gorm:"type:varchar(255)" json:"manager_name"`
	ContactNumber string `gorm:"type:varchar(20)" json:"contact_number"`
}
