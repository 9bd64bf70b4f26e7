package orgs

import (
	"context"

	"github.com/centavo-sv/centavo/internal/rbac"
)

// Repository defines persistence operations for organizations and members.
type Repository interface {
	CreateOrgWithOwner(ctx context.Context, name, taxID string, ownerID int64) (Organization, error)
	GetOrg(ctx context.Context, orgID int64) (Organization, error)
	ListOrgsForUser(ctx context.Context, userID int64) ([]Organization, error)

	ListMembers(ctx context.Context, orgID int64) ([]Member, error)
	GetMemberRole(ctx context.Context, userID, orgID int64) (rbac.Role, bool, error)
	InsertMember(ctx context.Context, orgID, userID int64, role rbac.Role) error
	UpdateMemberRole(ctx context.Context, orgID, userID int64, role rbac.Role) error
	DeleteMember(ctx context.Context, orgID, userID int64) (bool, error)
	CountAdmins(ctx context.Context, orgID int64) (int, error)
}
