package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "transfer:approve"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Privilege codes checked by the HTTP layer.
const (
	PrivTransferView     = "transfer:view"
	PrivTransferCreate   = "transfer:create"
	PrivTransferApprove  = "transfer:approve"
	PrivTransferDispatch = "transfer:dispatch"
	PrivTransferReceive  = "transfer:receive"
	PrivMachineView      = "machine:view"
	PrivMachineCreate    = "machine:create"
	PrivSiteView         = "site:view"
	PrivSiteCreate       = "site:create"
	PrivDashboardView    = "dashboard:view"
	PrivUserCreate       = "user:create"
)

var DefaultPrivileges = []Privilege{
	// Transfers
	{Code: PrivTransferView, Name: "View Transfer"},
	{Code: PrivTransferCreate, Name: "Request Transfer"},
	{Code: PrivTransferApprove, Name: "Approve or Reject Transfer"},
	{Code: PrivTransferDispatch, Name: "Dispatch Transfer"},
	{Code: PrivTransferReceive, Name: "Receive Transfer"},
	// Fleet
	{Code: PrivMachineView, Name: "View Machine"},
	{Code: PrivMachineCreate, Name: "Create Machine"},
	{Code: PrivSiteView, Name: "View Site"},
	{Code: PrivSiteCreate, Name: "Create Site"},
	// Dashboard
	{Code: PrivDashboardView, Name: "View Dashboard"},
	// User management (MASTER_ADMIN only)
	{Code: PrivUserCreate, Name: "Create User"},
}
