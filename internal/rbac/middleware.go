package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/centavo-sv/centavo/internal/shared"
)

// RoleResolver resolves the membership role of a user within an organization.
// It is the membership-resolution concern external to the matrix: requests
// that cannot establish a role never reach the permission check.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID, orgID int64) (Role, bool, error)
}

// Actor identifies the authenticated member a request is acting as.
type Actor struct {
	UserID int64
	OrgID  int64
	Role   Role
}

type actorContextKey struct{}

// ContextWithActor stores the resolved actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the resolved actor from context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}

// Middleware wires authorization for organization-scoped HTTP routes. Every
// mutating route in the application must pass through RequireAny or
// RequireAll before touching persisted state.
type Middleware struct {
	Resolver RoleResolver
	Logger   *slog.Logger
}

// RequireAny admits the request when the member's role holds at least one of
// the permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.require(perms, HasAnyPermission)
}

// RequireAll admits the request when the member's role holds every permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.require(perms, HasAllPermissions)
}

func (m Middleware) require(perms []string, check func(Role, ...string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.currentUserID(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			role, member, err := m.Resolver.ResolveRole(r.Context(), userID, orgID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac resolve role", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !member {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			if !check(role, perms...) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			ctx := ContextWithActor(r.Context(), Actor{UserID: userID, OrgID: orgID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := sess.User()
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("rbac parse user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
