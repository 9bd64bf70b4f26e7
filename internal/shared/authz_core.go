package shared

// Core platform permissions: organizations and memberships.
const (
	PermOrgsView = "orgs.view"
	PermOrgsEdit = "orgs.edit"

	PermMembersView   = "members.view"
	PermMembersInvite = "members.invite"
	PermMembersRemove = "members.remove"

	PermRolesAssign = "roles.assign"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermOrgsView,
		PermOrgsEdit,
		PermMembersView,
		PermMembersInvite,
		PermMembersRemove,
		PermRolesAssign,
	}
}
