package rest

import (
	"net/http"

	"github.com/frahmantamala/attendance-report/api"
	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/department"
	"github.com/frahmantamala/attendance-report/internal/report"
	"github.com/frahmantamala/attendance-report/internal/transport"
	"github.com/frahmantamala/attendance-report/internal/transport/middleware"
	"github.com/frahmantamala/attendance-report/internal/transport/swagger"
	"github.com/frahmantamala/attendance-report/internal/user"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Department *department.Handler
	Report     *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, base *transport.BaseHandler, h Handlers, metrics internal.MetricsConfig) {
	healthHandler := NewHealthHandler(map[string]Check{"database": DatabaseCheck(db)})
	guard := middleware.NewGuard(base)

	// Apply global middleware
	router.Use(middleware.WithLogger(base.Logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.Metrics)

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	if metrics.Enabled {
		router.Handle(metrics.Path, promhttp.Handler())
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Post("/auth/logout", h.Auth.Logout)
			pr.Get("/auth/me", h.Auth.Me)

			pr.With(guard.Require(auth.ActionProfileSelf)).Get("/profile", h.User.GetProfile)
			pr.With(guard.Require(auth.ActionProfileSelf)).Put("/profile", h.User.UpdateProfile)

			pr.Route("/departments", func(dr chi.Router) {
				dr.With(guard.Require(auth.ActionDepartmentRead)).Get("/", h.Department.List)
				dr.With(guard.Require(auth.ActionDepartmentRead)).Get("/{id}", h.Department.Get)

				dr.Group(func(mr chi.Router) {
					mr.Use(guard.Require(auth.ActionDepartmentManage))
					mr.Post("/", h.Department.Create)
					mr.Put("/{id}", h.Department.Rename)
					mr.Delete("/{id}", h.Department.Delete)
				})
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.With(guard.Require(auth.ActionAccountCreate)).Post("/", h.User.Create)

				ur.Group(func(mr chi.Router) {
					mr.Use(guard.Require(auth.ActionAccountManage))
					mr.Get("/", h.User.List)
					mr.Get("/{id}", h.User.Get)
					mr.Put("/{id}", h.User.Update)
					mr.Delete("/{id}", h.User.Delete)
				})
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.With(guard.Require(auth.ActionReportSubmit)).Post("/", h.Report.Submit)
				rr.With(guard.Require(auth.ActionReportList)).Get("/", h.Report.List)
				rr.With(guard.Require(auth.ActionReportList)).Get("/{id}", h.Report.Get)
				rr.With(guard.Require(auth.ActionReportReview)).Patch("/{id}/review", h.Report.Review)
				rr.With(guard.Require(auth.ActionReportDelete)).Delete("/{id}", h.Report.Delete)
			})
		})
	})
}
