package orgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
)

var (
	// ErrAlreadyMember indicates the user already belongs to the organization.
	ErrAlreadyMember = errors.New("orgs: user is already a member")
	// ErrUnknownRole indicates a role outside the enumeration.
	ErrUnknownRole = errors.New("orgs: unknown role")
	// ErrLastAdmin indicates the operation would leave the organization
	// without an ADMIN.
	ErrLastAdmin = errors.New("orgs: cannot remove the last admin")
)

const roleCacheTTL = time.Minute

// Service orchestrates organization and membership operations. It implements
// rbac.RoleResolver with a short-lived Redis cache in front of postgres.
type Service struct {
	repo   Repository
	cache  *redis.Client
	audit  shared.Recorder
	logger *slog.Logger
}

// NewService constructs an orgs Service. The cache client is optional.
func NewService(repo Repository, cache *redis.Client, audit shared.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger}
}

var _ rbac.RoleResolver = (*Service)(nil)

// CreateOrganization creates a tenant; the creator becomes its first ADMIN.
func (s *Service) CreateOrganization(ctx context.Context, name, taxID string, creatorID int64) (Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, errors.New("orgs: organization name required")
	}
	org, err := s.repo.CreateOrgWithOwner(ctx, name, strings.TrimSpace(taxID), creatorID)
	if err != nil {
		return Organization{}, fmt.Errorf("orgs: create organization: %w", err)
	}
	s.recordAudit(ctx, org.ID, creatorID, "orgs.create", "organization", strconv.FormatInt(org.ID, 10), nil)
	return org, nil
}

// GetOrganization fetches one organization.
func (s *Service) GetOrganization(ctx context.Context, orgID int64) (Organization, error) {
	return s.repo.GetOrg(ctx, orgID)
}

// ListForUser returns organizations the user is a member of.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Organization, error) {
	return s.repo.ListOrgsForUser(ctx, userID)
}

// ListMembers returns all members of an organization.
func (s *Service) ListMembers(ctx context.Context, orgID int64) ([]Member, error) {
	return s.repo.ListMembers(ctx, orgID)
}

// AddMember attaches a user with the given role.
func (s *Service) AddMember(ctx context.Context, orgID, userID int64, role rbac.Role, actorID int64) error {
	if !rbac.ValidRole(role) {
		return ErrUnknownRole
	}
	if err := s.repo.InsertMember(ctx, orgID, userID, role); err != nil {
		return err
	}
	s.invalidateRole(ctx, userID, orgID)
	s.recordAudit(ctx, orgID, actorID, "members.invite", "membership", memberEntityID(orgID, userID),
		map[string]any{"role": role})
	return nil
}

// ChangeRole reassigns a member's role. The last ADMIN cannot be demoted.
func (s *Service) ChangeRole(ctx context.Context, orgID, userID int64, role rbac.Role, actorID int64) error {
	if !rbac.ValidRole(role) {
		return ErrUnknownRole
	}
	if role != rbac.RoleAdmin {
		current, member, err := s.repo.GetMemberRole(ctx, userID, orgID)
		if err != nil {
			return err
		}
		if member && current == rbac.RoleAdmin {
			admins, err := s.repo.CountAdmins(ctx, orgID)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
	}
	if err := s.repo.UpdateMemberRole(ctx, orgID, userID, role); err != nil {
		return err
	}
	s.invalidateRole(ctx, userID, orgID)
	s.recordAudit(ctx, orgID, actorID, "roles.assign", "membership", memberEntityID(orgID, userID),
		map[string]any{"role": role})
	return nil
}

// RemoveMember detaches a user. The last ADMIN cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, orgID, userID int64, actorID int64) error {
	current, member, err := s.repo.GetMemberRole(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !member {
		return shared.ErrNotFound
	}
	if current == rbac.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, orgID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}
	removed, err := s.repo.DeleteMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return shared.ErrNotFound
	}
	s.invalidateRole(ctx, userID, orgID)
	s.recordAudit(ctx, orgID, actorID, "members.remove", "membership", memberEntityID(orgID, userID), nil)
	return nil
}

// ResolveRole resolves a membership role, consulting the cache first.
func (s *Service) ResolveRole(ctx context.Context, userID, orgID int64) (rbac.Role, bool, error) {
	key := roleCacheKey(userID, orgID)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			if cached == "" {
				return "", false, nil
			}
			return rbac.Role(cached), true, nil
		}
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("role cache read", slog.Any("error", err))
		}
	}

	role, member, err := s.repo.GetMemberRole(ctx, userID, orgID)
	if err != nil {
		return "", false, err
	}
	if s.cache != nil {
		value := ""
		if member {
			value = string(role)
		}
		if err := s.cache.Set(ctx, key, value, roleCacheTTL).Err(); err != nil && s.logger != nil {
			s.logger.Warn("role cache write", slog.Any("error", err))
		}
	}
	return role, member, nil
}

func (s *Service) invalidateRole(ctx context.Context, userID, orgID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, roleCacheKey(userID, orgID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("role cache invalidate", slog.Any("error", err))
	}
}

func (s *Service) recordAudit(ctx context.Context, orgID, actorID int64, action, entity, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		OrgID:    orgID,
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Error("orgs audit record", slog.Any("error", err))
	}
}

func roleCacheKey(userID, orgID int64) string {
	return fmt.Sprintf("membership:%d:%d", orgID, userID)
}

func memberEntityID(orgID, userID int64) string {
	return fmt.Sprintf("%d/%d", orgID, userID)
}
