package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/centavo-sv/centavo/internal/audit"
	"github.com/centavo-sv/centavo/internal/auth"
	"github.com/centavo-sv/centavo/internal/employees"
	"github.com/centavo-sv/centavo/internal/inventory"
	"github.com/centavo-sv/centavo/internal/invoices"
	"github.com/centavo-sv/centavo/internal/observability"
	"github.com/centavo-sv/centavo/internal/orgs"
	"github.com/centavo-sv/centavo/internal/payroll"
	"github.com/centavo-sv/centavo/internal/rbac"
	"github.com/centavo-sv/centavo/internal/shared"
	"github.com/centavo-sv/centavo/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	CSRFManager        *shared.CSRFManager
	AuthHandler        *auth.Handler
	OrgsHandler        *orgs.Handler
	EmployeesHandler   *employees.Handler
	PayrollHandler     *payroll.Handler
	InvoicesHandler    *invoices.Handler
	InventoryHandler   *inventory.Handler
	AuditHandler       *audit.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Centavo defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/orgs", func(r chi.Router) {
		params.OrgsHandler.MountRoutes(r)

		// Everything below this point is scoped to one organization and
		// guarded by the membership role matrix.
		r.Route("/{orgID}", func(r chi.Router) {
			params.OrgsHandler.MountScopedRoutes(r)
			r.Route("/employees", params.EmployeesHandler.MountRoutes)
			r.Route("/payroll", params.PayrollHandler.MountRoutes)
			r.Route("/invoices", params.InvoicesHandler.MountRoutes)
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
			if params.AuditHandler != nil {
				r.Route("/audit", params.AuditHandler.MountRoutes)
			}
		})
	})

	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
