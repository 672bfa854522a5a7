package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halisahar-connect/civic-portal/api/controllers"
	"github.com/halisahar-connect/civic-portal/api/middleware"
	"github.com/halisahar-connect/civic-portal/internal/alerts"
	"github.com/halisahar-connect/civic-portal/internal/auth"
	"github.com/halisahar-connect/civic-portal/internal/complaints"
	"github.com/halisahar-connect/civic-portal/internal/media"
	"github.com/halisahar-connect/civic-portal/internal/users"
	"github.com/halisahar-connect/civic-portal/pkg/auth/session"
	"github.com/halisahar-connect/civic-portal/pkg/config"
	"github.com/halisahar-connect/civic-portal/pkg/enums"
	"github.com/halisahar-connect/civic-portal/pkg/logger"
	"github.com/halisahar-connect/civic-portal/pkg/metrics"
)

// RouterParams carries everything the HTTP surface needs. Sessions and the
// metrics fields are optional.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	Readiness        map[string]controllers.Pinger
	Sessions         session.AccessSessionChecker
	HTTPMetrics      *metrics.HTTPMetrics
	MetricsGatherer  prometheus.Gatherer
	AuthService      auth.Service
	UserService      users.Service
	ComplaintService complaints.Service
	AlertService     alerts.Service
	MediaService     media.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, p.Readiness, logg))
	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	authenticate := middleware.Auth(cfg.JWT, p.Sessions, logg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/google", controllers.AuthGoogle(p.AuthService, logg))
		r.Get("/alerts/{ward}", controllers.AlertsForWard(p.AlertService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/auth/refresh", controllers.AuthRefresh(p.AuthService, logg))
			r.Post("/auth/logout", controllers.AuthLogout(p.AuthService, logg))
			r.Post("/upload", controllers.MediaUpload(p.MediaService, cfg.Media.MaxUploadBytes(), logg))

			r.Get("/user/me", controllers.UserMe(p.UserService, logg))
			r.Put("/user/profile", controllers.UserUpdateProfile(p.UserService, logg))

			r.Post("/complaints", controllers.ComplaintCreate(p.ComplaintService, logg))
			r.Get("/complaints/me", controllers.ComplaintsMine(p.ComplaintService, logg))
			r.Get("/complaints/me/stats", controllers.ComplaintsMineStats(p.ComplaintService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(enums.RoleAdmin, logg))

			r.Get("/users", controllers.AdminListUsers(p.UserService, logg))
			r.Put("/verify-user/{id}", controllers.AdminVerifyUser(p.UserService, logg))
			r.Delete("/users/{id}", controllers.AdminDeleteUser(p.UserService, logg))

			r.Get("/complaints", controllers.AdminComplaints(p.ComplaintService, logg))
			r.Get("/complaints/stats", controllers.AdminComplaintStats(p.ComplaintService, logg))
			r.Put("/complaints/{id}", controllers.AdminComplaintUpdate(p.ComplaintService, logg))

			r.Post("/send-alert", controllers.AdminSendAlert(p.AlertService, logg))
			r.Get("/alerts", controllers.AdminAlerts(p.AlertService, logg))
			r.Delete("/alerts/{id}", controllers.AdminDeleteAlert(p.AlertService, logg))
		})
	})

	return r
}
