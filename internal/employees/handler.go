package employees

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/centavo-sv/centavo/internal/platform/httpx"
	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
)

// Handler exposes employee endpoints under /orgs/{orgID}/employees.
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

// MountRoutes registers employee routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermEmployeesView))
		r.Get("/", h.list)
		r.Get("/{employeeID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermEmployeesCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermEmployeesEdit))
		r.Put("/{employeeID}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermEmployeesDelete))
		r.Delete("/{employeeID}", h.deactivate)
	})
}

type employeeForm struct {
	FullName      string  `json:"full_name" validate:"required,min=2,max=160"`
	DocumentID    string  `json:"document_id" validate:"max=20"`
	Position      string  `json:"position" validate:"max=120"`
	MonthlySalary float64 `json:"monthly_salary" validate:"gte=0"`
	IsActive      *bool   `json:"is_active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	list, err := h.service.List(r.Context(), actor.OrgID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"employees": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	id, err := parseID(r, "employeeID")
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	emp, err := h.service.Get(r.Context(), actor.OrgID, id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	form, err := h.decodeForm(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	emp, err := h.service.Create(r.Context(), Employee{
		OrgID:         actor.OrgID,
		FullName:      form.FullName,
		DocumentID:    form.DocumentID,
		Position:      form.Position,
		MonthlySalary: form.MonthlySalary,
	}, actor.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, emp)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	id, err := parseID(r, "employeeID")
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	form, err := h.decodeForm(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	active := true
	if form.IsActive != nil {
		active = *form.IsActive
	}
	emp, err := h.service.Update(r.Context(), Employee{
		ID:            id,
		OrgID:         actor.OrgID,
		FullName:      form.FullName,
		DocumentID:    form.DocumentID,
		Position:      form.Position,
		MonthlySalary: form.MonthlySalary,
		IsActive:      active,
	}, actor.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, emp)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	id, err := parseID(r, "employeeID")
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.Deactivate(r.Context(), actor.OrgID, id, actor.UserID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeForm(r *http.Request) (employeeForm, error) {
	var form employeeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		return form, fmt.Errorf("%w: malformed body", httpx.ErrValidation)
	}
	if err := h.validate.Struct(form); err != nil {
		return form, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	return form, nil
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrNegativeSalary):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	default:
		h.logger.Error("employees request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}
