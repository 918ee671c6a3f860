package models

// Role tags which account collection an identity belongs to
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleResident        Role = "resident"
	RoleServiceProvider Role = "serviceProvider"
)

// ParseRole resolves a token role claim. An empty claim predates the role
// field and always meant an admin token.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "":
		return RoleAdmin, true
	case RoleAdmin, RoleResident, RoleServiceProvider:
		return Role(s), true
	default:
		return "", false
	}
}

// Account is implemented by Admin, Resident and ServiceProvider only
type Account interface {
	AccountID() string
	AccountRole() Role
	Identity() Identity
	sealedAccount()
}

// Identity is the normalized view of an authenticated account that guards and
// handlers work with. Only the projection of the account's role is populated.
type Identity struct {
	ID    string `json:"id"`
	Role  Role   `json:"type"`
	Email string `json:"email"`

	Username     string `json:"username,omitempty"`
	IsSuperAdmin bool   `json:"isSuperAdmin,omitempty"`

	Name           string `json:"name,omitempty"`
	Apartment      string `json:"apartment,omitempty"`
	Status         string `json:"status,omitempty"`
	ApprovalStatus string `json:"approvalStatus,omitempty"`
}
