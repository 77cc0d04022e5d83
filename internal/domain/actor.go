package domain

// Actor roles as carried in the JWT.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   string
	OrgID  string
}

// IsStaff reports whether the actor manages the organization.
func (a Actor) IsStaff() bool {
	return a.Role == RoleOwner || a.Role == RoleAdmin
}

// CanActOn reports whether the actor may operate on a tenant record:
// staff of the same org, or the resident themselves.
func (a Actor) CanActOn(t *Tenant) bool {
	if a.OrgID != t.OrgID {
		return false
	}
	return a.IsStaff() || a.UserID == t.UserID
}

// IsSelf reports whether the actor is the resident behind the tenant
// record. Staff membership does not qualify.
func (a Actor) IsSelf(t *Tenant) bool {
	return a.OrgID == t.OrgID && a.UserID == t.UserID
}
