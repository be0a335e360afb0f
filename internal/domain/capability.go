package domain

// CapabilitySet is the boolean permission set derived from a role. The zero
// value denies everything.
type CapabilitySet struct {
	IsAdmin          bool `json:"is_admin"`
	CanManageUsers   bool `json:"can_manage_users"`
	CanManageContent bool `json:"can_manage_content"`
	CanViewContent   bool `json:"can_view_content"`
	CanExportContent bool `json:"can_export_content"`
}

// capabilityMatrix is the single source of truth for role permissions.
// Exhaustive over the role enum; roles absent from the table get the
// zero-value set (deny all), never a default grant.
var capabilityMatrix = map[Role]CapabilitySet{
	RoleAdmin: {
		IsAdmin:          true,
		CanManageUsers:   true,
		CanManageContent: true,
		CanViewContent:   true,
		CanExportContent: true,
	},
	RoleUser: {
		CanManageContent: true,
		CanViewContent:   true,
		CanExportContent: true,
	},
	RoleReadOnly: {
		CanViewContent: true,
	},
}

// Capabilities returns the capability set for a role. Unknown roles resolve
// to the empty set.
func Capabilities(role Role) CapabilitySet {
	return capabilityMatrix[role]
}

// MembershipCapabilities derives capabilities from a membership. An inactive
// membership has no capabilities regardless of role.
func MembershipCapabilities(m *Membership) CapabilitySet {
	if m == nil || !m.Active {
		return CapabilitySet{}
	}
	return Capabilities(m.Role)
}
