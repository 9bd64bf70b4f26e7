package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/centavo-sv/centavo/internal/platform/httpx"
)

// PermissionsHandler exposes the permission catalogue and the role matrix
// for UI rendering.
type PermissionsHandler struct{}

// NewPermissionsHandler builds the handler.
func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// MountRoutes registers catalogue routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCatalogue)
	r.Get("/roles", h.listRoles)
}

func (h *PermissionsHandler) listCatalogue(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": Catalogue()})
}

func (h *PermissionsHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	out := make(map[Role][]string, len(Roles()))
	for _, role := range Roles() {
		out[role] = PermissionsFor(role)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}
