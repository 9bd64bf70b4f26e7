package payroll

import (
	"context"
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

// Enqueuer submits payroll runs for background processing.
type Enqueuer interface {
	EnqueuePayrollRun(ctx context.Context, orgID int64, period string, actorID int64) error
}

// Handler exposes payroll endpoints under /orgs/{orgID}/payroll.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	enqueuer Enqueuer
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, enqueuer Enqueuer, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		enqueuer: enqueuer,
		rbac:     rbacMW,
		validate: validator.New(),
	}
}

// MountRoutes registers payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPayrollView))
		r.Get("/runs", h.listRuns)
		r.Get("/runs/{runID}", h.getRun)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPayrollRun))
		r.Post("/runs", h.createRun)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPayrollExport))
		r.Get("/runs/{runID}/export.csv", h.exportRun)
	})
}

type createRunRequest struct {
	Period string `json:"period" validate:"required,len=7"`
	Async  bool   `json:"async"`
}

func (h *Handler) createRun(w http.ResponseWriter, r *http.Request) {
	actor, ok := rbac.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}

	var req createRunRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: malformed body", httpx.ErrValidation))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: period required", httpx.ErrValidation))
		return
	}

	if req.Async {
		if h.enqueuer == nil {
			httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "background processing not configured")
			return
		}
		if err := h.enqueuer.EnqueuePayrollRun(r.Context(), actor.OrgID, req.Period, actor.UserID); err != nil {
			h.logger.Error("enqueue payroll run", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]any{"status": StatusPending, "period": req.Period})
		return
	}

	run, slips, err := h.service.RunPayroll(r.Context(), actor.OrgID, req.Period, actor.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"run": run, "payslips": slips})
}

func (h *Handler) listRuns(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	runs, err := h.service.ListRuns(r.Context(), actor.OrgID)
	if err != nil {
		h.logger.Error("list payroll runs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	run, slips, err := h.service.GetRun(r.Context(), actor.OrgID, chi.URLParam(r, "runID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"run": run, "payslips": slips})
}

func (h *Handler) exportRun(w http.ResponseWriter, r *http.Request) {
	actor, _ := rbac.ActorFromContext(r.Context())
	runID := chi.URLParam(r, "runID")
	run, slips, err := h.service.GetRun(r.Context(), actor.OrgID, runID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=planilla-%s.csv", run.Period))
	if err := WriteRunCSV(w, run, slips); err != nil {
		h.logger.Error("export payroll csv", slog.Any("error", err))
	}
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrRunExists):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrConflict, err))
	case errors.Is(err, ErrNoEmployees), errors.Is(err, ErrInvalidPeriod):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	default:
		h.logger.Error("payroll request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
