package rest

import (
	"log/slog"
	"net/http"

	"github.com/averoza/stockroom/internal/audit"
	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/dashboard"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
	"github.com/averoza/stockroom/internal/transport/middleware"
	"github.com/averoza/stockroom/internal/transport/swagger"
	"github.com/averoza/stockroom/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

type Handlers struct {
	Auth        *auth.Handler
	Employee    *auth.EmployeeHandler
	User        *user.Handler
	Material    *material.Handler
	Movement    *movement.Handler
	Requisition *requisition.Handler
	Dashboard   *dashboard.Handler
	Audit       *audit.Handler
}

// RegisterAllRoutes wires the route table. db may be nil when the in-memory
// backend is active; the health handler degrades accordingly.
func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// OpenAPI spec and swagger UI live outside the API prefix. The document is
	// validated on startup; a broken spec only disables the docs endpoints.
	if doc, err := swagger.LoadSpec("./api/openapi.yml"); err != nil {
		logger.Warn("openapi document unavailable", "error", err)
	} else {
		router.Get("/openapi.json", swagger.SpecHandler(doc))
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, "./api/openapi.yml")
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Employee self-service portal.
		r.Route("/employee", func(er chi.Router) {
			er.Post("/register", h.Employee.Register)
			er.Post("/login", h.Employee.Login)
			er.Post("/logout", h.Employee.Logout)

			er.Group(func(gr chi.Router) {
				gr.Use(h.Employee.EmployeeGuard)
				gr.Get("/me", h.Employee.Me)
				gr.Get("/requisitions", h.Requisition.ListOwnRequisitions)
				gr.Post("/requisitions/{id}/sign", h.Requisition.SignOwnRequisition)
			})
		})

		// Staff routes.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Route("/materials", func(mr chi.Router) {
				mr.Use(h.Auth.RequirePermission(auth.PermMaterialsRead))
				mr.Get("/", h.Material.ListMaterials)
				mr.Get("/low-stock", h.Material.ListLowStock)
				mr.Get("/{id}", h.Material.GetMaterial)

				mr.Group(func(wr chi.Router) {
					wr.Use(h.Auth.RequirePermission(auth.PermMaterialsWrite))
					wr.Post("/", h.Material.CreateMaterial)
					wr.Patch("/{id}", h.Material.UpdateMaterial)
					wr.Delete("/{id}", h.Material.DeleteMaterial)
				})
			})

			pr.Route("/stock-movements", func(mr chi.Router) {
				mr.Use(h.Auth.RequirePermission(auth.PermMovementsRead))
				mr.Get("/", h.Movement.ListMovements)

				mr.Group(func(wr chi.Router) {
					wr.Use(h.Auth.RequirePermission(auth.PermMovementsWrite))
					wr.Post("/", h.Movement.CreateMovement)
				})
			})

			pr.Route("/requisitions", func(rr chi.Router) {
				rr.Use(h.Auth.RequirePermission(auth.PermRequisitionsRead))
				rr.Get("/", h.Requisition.ListRequisitions)
				rr.Get("/{id}", h.Requisition.GetRequisition)

				rr.Group(func(wr chi.Router) {
					wr.Use(h.Auth.RequirePermission(auth.PermRequisitionsWrite))
					wr.Post("/", h.Requisition.CreateRequisition)
					wr.Post("/{id}/cancel", h.Requisition.CancelRequisition)
				})

				rr.Group(func(sr chi.Router) {
					sr.Use(h.Auth.RequirePermission(auth.PermRequisitionsSign))
					sr.Post("/{id}/sign", h.Requisition.SignRequisition)
				})
			})

			pr.Route("/dashboard", func(dr chi.Router) {
				dr.Use(h.Auth.RequirePermission(auth.PermDashboardRead))
				dr.Get("/stats", h.Dashboard.GetStats)
				dr.Get("/low-stock", h.Dashboard.GetLowStock)
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(h.Auth.RequireAdmin)
				ar.Get("/audit-logs", h.Audit.ListAuditLogs)
				ar.Get("/users", h.User.ListUsers)
			})
		})
	})
}
