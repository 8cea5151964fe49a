package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can approve overtime and manage rooms
	RoleEmployee Role = "employee" // Regular employee
	RolePending  Role = "pending"  // Still in onboarding
)

// Identity is the caller as described by a verified access token.
type Identity struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       Role
}

// IsManager checks if user is manager or owner
func (i Identity) IsManager() bool {
	return i.Role == RoleManager || i.Role == RoleOwner
}

// Can checks the role permission table for the caller.
func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}
