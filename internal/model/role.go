package model

// Role groups the privileges a user receives on creation
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleSiteManager = "SITE_MANAGER"
	RoleRequester   = "REQUESTER"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Approves transfers and manages the fleet",
	},
	{
		Code:        RoleSiteManager,
		Name:        "Site Manager",
		Description: "Requests, dispatches and receives machines at a site",
	},
	{
		Code:        RoleRequester,
		Name:        "Requester",
		Description: "Raises transfer requests",
	},
}

// RolePrivileges maps each default role to its privilege codes. A nil entry means every privilege.
var RolePrivileges = map[string][]string{
	RoleMasterAdmin: nil,
	RoleAdmin: {
		PrivTransferView, PrivTransferCreate, PrivTransferApprove, PrivTransferDispatch, PrivTransferReceive,
		PrivMachineView, PrivMachineCreate, PrivSiteView, PrivSiteCreate, PrivDashboardView,
	},
	RoleSiteManager: {
		PrivTransferView, PrivTransferCreate, PrivTransferDispatch, PrivTransferReceive,
		PrivMachineView, PrivSiteView, PrivDashboardView,
	},
	RoleRequester: {
		PrivTransferView, PrivTransferCreate, PrivMachineView, PrivSiteView,
	},
}
