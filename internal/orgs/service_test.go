package orgs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
	_ "github.com/centavo-sv/centavo/testing"
)

type membershipKey struct {
	orgID, userID int64
}

type memoryRepo struct {
	nextOrgID   int64
	orgs        map[int64]Organization
	memberships map[membershipKey]rbac.Role

	roleLookups int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nextOrgID:   1,
		orgs:        make(map[int64]Organization),
		memberships: make(map[membershipKey]rbac.Role),
	}
}

func (m *memoryRepo) CreateOrgWithOwner(ctx context.Context, name, taxID string, ownerID int64) (Organization, error) {
	org := Organization{ID: m.nextOrgID, Name: name, TaxID: taxID}
	m.nextOrgID++
	m.orgs[org.ID] = org
	m.memberships[membershipKey{org.ID, ownerID}] = rbac.RoleAdmin
	return org, nil
}

func (m *memoryRepo) GetOrg(ctx context.Context, orgID int64) (Organization, error) {
	org, ok := m.orgs[orgID]
	if !ok {
		return Organization{}, shared.ErrNotFound
	}
	return org, nil
}

func (m *memoryRepo) ListOrgsForUser(ctx context.Context, userID int64) ([]Organization, error) {
	var out []Organization
	for key := range m.memberships {
		if key.userID == userID {
			out = append(out, m.orgs[key.orgID])
		}
	}
	return out, nil
}

func (m *memoryRepo) ListMembers(ctx context.Context, orgID int64) ([]Member, error) {
	var out []Member
	for key, role := range m.memberships {
		if key.orgID == orgID {
			out = append(out, Member{OrgID: orgID, UserID: key.userID, Role: role})
		}
	}
	return out, nil
}

func (m *memoryRepo) GetMemberRole(ctx context.Context, userID, orgID int64) (rbac.Role, bool, error) {
	m.roleLookups++
	role, ok := m.memberships[membershipKey{orgID, userID}]
	return role, ok, nil
}

func (m *memoryRepo) InsertMember(ctx context.Context, orgID, userID int64, role rbac.Role) error {
	key := membershipKey{orgID, userID}
	if _, ok := m.memberships[key]; ok {
		return ErrAlreadyMember
	}
	m.memberships[key] = role
	return nil
}

func (m *memoryRepo) UpdateMemberRole(ctx context.Context, orgID, userID int64, role rbac.Role) error {
	m.memberships[membershipKey{orgID, userID}] = role
	return nil
}

func (m *memoryRepo) DeleteMember(ctx context.Context, orgID, userID int64) (bool, error) {
	key := membershipKey{orgID, userID}
	if _, ok := m.memberships[key]; !ok {
		return false, nil
	}
	delete(m.memberships, key)
	return true, nil
}

func (m *memoryRepo) CountAdmins(ctx context.Context, orgID int64) (int, error) {
	count := 0
	for key, role := range m.memberships {
		if key.orgID == orgID && role == rbac.RoleAdmin {
			count++
		}
	}
	return count, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, client, nil, nil)
}

func TestCreateOrganizationMakesCreatorAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "  Ferretería La Fe  ", "0614-010190-101-2", 10)
	require.NoError(t, err)
	require.Equal(t, "Ferretería La Fe", org.Name)

	role, member, err := svc.ResolveRole(context.Background(), 10, org.ID)
	require.NoError(t, err)
	require.True(t, member)
	require.Equal(t, rbac.RoleAdmin, role)
}

func TestCreateOrganizationRequiresName(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())

	_, err := svc.CreateOrganization(context.Background(), "   ", "", 10)
	require.Error(t, err)
}

func TestResolveRoleCachesLookups(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, member, err := svc.ResolveRole(context.Background(), 10, org.ID)
		require.NoError(t, err)
		require.True(t, member)
	}
	require.Equal(t, 1, repo.roleLookups, "repeat lookups must hit the cache")
}

func TestResolveRoleCachesNonMembership(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	for i := 0; i < 2; i++ {
		_, member, err := svc.ResolveRole(context.Background(), 99, 1)
		require.NoError(t, err)
		require.False(t, member)
	}
	require.Equal(t, 1, repo.roleLookups)
}

func TestAddMemberInvalidatesCache(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	// Prime the negative cache for user 20.
	_, member, err := svc.ResolveRole(context.Background(), 20, org.ID)
	require.NoError(t, err)
	require.False(t, member)

	require.NoError(t, svc.AddMember(context.Background(), org.ID, 20, rbac.RoleAccountant, 10))

	role, member, err := svc.ResolveRole(context.Background(), 20, org.ID)
	require.NoError(t, err)
	require.True(t, member)
	require.Equal(t, rbac.RoleAccountant, role)
}

func TestAddMemberRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t, newMemoryRepo())

	err := svc.AddMember(context.Background(), 1, 20, rbac.Role("SUPERUSER"), 10)
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	err = svc.AddMember(context.Background(), org.ID, 10, rbac.RoleEmployee, 10)
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestChangeRoleGuardsLastAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	err = svc.ChangeRole(context.Background(), org.ID, 10, rbac.RoleEmployee, 10)
	require.ErrorIs(t, err, ErrLastAdmin)

	// A second admin unblocks the demotion.
	require.NoError(t, svc.AddMember(context.Background(), org.ID, 20, rbac.RoleAdmin, 10))
	require.NoError(t, svc.ChangeRole(context.Background(), org.ID, 10, rbac.RoleEmployee, 10))

	role, member, err := svc.ResolveRole(context.Background(), 10, org.ID)
	require.NoError(t, err)
	require.True(t, member)
	require.Equal(t, rbac.RoleEmployee, role)
}

func TestRemoveMemberGuardsLastAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	err = svc.RemoveMember(context.Background(), org.ID, 10, 10)
	require.ErrorIs(t, err, ErrLastAdmin)

	require.NoError(t, svc.AddMember(context.Background(), org.ID, 20, rbac.RoleAdmin, 10))
	require.NoError(t, svc.RemoveMember(context.Background(), org.ID, 10, 20))

	_, member, err := svc.ResolveRole(context.Background(), 10, org.ID)
	require.NoError(t, err)
	require.False(t, member)
}

func TestRemoveMemberUnknownUser(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(t, repo)

	org, err := svc.CreateOrganization(context.Background(), "Acme", "", 10)
	require.NoError(t, err)

	err = svc.RemoveMember(context.Background(), org.ID, 99, 10)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
