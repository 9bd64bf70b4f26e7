package inventory

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/centavo-sv/centavo/internal/platform/httpx"
	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
)

// Handler exposes inventory endpoints under /orgs/{orgID}/inventory.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbacMW, validate: validator.New()}
}

// MountRoutes registers inventory routes. Adjustments require a broader
// permission than plain movements.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermInventoryView))
		r.Get("/levels", h.listLevels)
		r.Get("/movements/{sku}", h.listMovements)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermInventoryMove))
		r.Post("/movements", h.postMovement)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermInventoryAdjust))
		r.Post("/adjustments", h.postAdjustment)
	})
}

type movementForm struct {
	SKU      string  `json:"sku" validate:"required,max=60"`
	Type     string  `json:"type" validate:"required,oneof=IN OUT"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Note     string  `json:"note" validate:"max=240"`
}

type adjustmentForm struct {
	SKU      string  `json:"sku" validate:"required,max=60"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Note     string  `json:"note" validate:"max=240"`
}

func (h *Handler) listLevels(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	levels, err := h.service.ListLevels(r.Context(), actor.OrgID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"levels": levels})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	movements, err := h.service.ListMovements(r.Context(), actor.OrgID, chi.URLParam(r, "sku"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"movements": movements})
}

func (h *Handler) postMovement(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	var form movementForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	posted, err := h.service.PostMovement(r.Context(), MovementInput{
		OrgID:    actor.OrgID,
		SKU:      form.SKU,
		Type:     MovementType(form.Type),
		Quantity: form.Quantity,
		Note:     form.Note,
		ActorID:  actor.UserID,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, posted)
}

func (h *Handler) postAdjustment(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	var form adjustmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	posted, err := h.service.PostMovement(r.Context(), MovementInput{
		OrgID:    actor.OrgID,
		SKU:      form.SKU,
		Type:     MovementAdjustment,
		Quantity: form.Quantity,
		Note:     form.Note,
		ActorID:  actor.UserID,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, posted)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNegativeStock):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrConflict, err))
	case errors.Is(err, ErrInvalidQuantity):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	default:
		h.logger.Error("inventory request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
