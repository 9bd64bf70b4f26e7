// Package orgs manages organizations and role-scoped memberships. It owns
// membership resolution: turning (user, organization) into a role before the
// permission matrix is consulted.
package orgs

import (
	"time"

	"github.com/centavo-sv/centavo/internal/rbac"
)

// Organization is one tenant.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Member links a user to an organization with a role.
type Member struct {
	OrgID     int64     `json:"org_id"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      rbac.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
