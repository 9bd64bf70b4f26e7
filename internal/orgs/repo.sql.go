package orgs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centavo-sv/centavo/internal/platform/db"
	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
)

const pgUniqueViolation = "23505"

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

var _ Repository = (*PGRepository)(nil)

// CreateOrgWithOwner inserts the organization and its first ADMIN membership
// in one transaction.
func (r *PGRepository) CreateOrgWithOwner(ctx context.Context, name, taxID string, ownerID int64) (Organization, error) {
	var org Organization
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO organizations (name, tax_id) VALUES ($1, $2)
			 RETURNING id, name, tax_id, created_at`, name, taxID).
			Scan(&org.ID, &org.Name, &org.TaxID, &org.CreatedAt)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO memberships (org_id, user_id, role) VALUES ($1, $2, $3)`,
			org.ID, ownerID, rbac.RoleAdmin)
		return err
	})
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}

// GetOrg fetches an organization by ID.
func (r *PGRepository) GetOrg(ctx context.Context, orgID int64) (Organization, error) {
	var org Organization
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, tax_id, created_at FROM organizations WHERE id = $1`, orgID).
		Scan(&org.ID, &org.Name, &org.TaxID, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, shared.ErrNotFound
		}
		return Organization{}, err
	}
	return org, nil
}

// ListOrgsForUser returns the organizations a user belongs to.
func (r *PGRepository) ListOrgsForUser(ctx context.Context, userID int64) ([]Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.name, o.tax_id, o.created_at
		 FROM organizations o
		 JOIN memberships m ON m.org_id = o.id
		 WHERE m.user_id = $1 ORDER BY o.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orgs []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.TaxID, &org.CreatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// ListMembers returns members of an organization with user details.
func (r *PGRepository) ListMembers(ctx context.Context, orgID int64) ([]Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.org_id, m.user_id, u.email, u.name, m.role, m.created_at
		 FROM memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.org_id = $1 ORDER BY u.name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.OrgID, &m.UserID, &m.Email, &m.Name, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMemberRole returns the role of a user within an organization.
func (r *PGRepository) GetMemberRole(ctx context.Context, userID, orgID int64) (rbac.Role, bool, error) {
	var role rbac.Role
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM memberships WHERE user_id = $1 AND org_id = $2`, userID, orgID).
		Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return role, true, nil
}

// InsertMember adds a membership. Returns ErrAlreadyMember on duplicates.
func (r *PGRepository) InsertMember(ctx context.Context, orgID, userID int64, role rbac.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memberships (org_id, user_id, role) VALUES ($1, $2, $3)`,
		orgID, userID, role)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrAlreadyMember
	}
	return err
}

// UpdateMemberRole changes a membership role.
func (r *PGRepository) UpdateMemberRole(ctx context.Context, orgID, userID int64, role rbac.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET role = $3 WHERE org_id = $1 AND user_id = $2`,
		orgID, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteMember removes a membership, reporting whether a row was deleted.
func (r *PGRepository) DeleteMember(ctx context.Context, orgID, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM memberships WHERE org_id = $1 AND user_id = $2`, orgID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountAdmins counts ADMIN memberships for an organization.
func (r *PGRepository) CountAdmins(ctx context.Context, orgID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM memberships WHERE org_id = $1 AND role = $2`,
		orgID, rbac.RoleAdmin).Scan(&count)
	return count, err
}
