package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alraedsec/work-management/internal/activity"
	"github.com/alraedsec/work-management/internal/auth"
	"github.com/alraedsec/work-management/internal/report"
	"github.com/alraedsec/work-management/internal/task"
	"github.com/alraedsec/work-management/internal/transport/middleware"
	"github.com/alraedsec/work-management/internal/transport/swagger"
	"github.com/alraedsec/work-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, taskHandler *task.Handler, activityHandler *activity.Handler, reportHandler *report.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/register", authHandler.Register)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Post("/auth/change-password", authHandler.ChangePassword)

			if userHandler != nil {
				pr.Get("/users/me", userHandler.GetCurrentUser)

				// Account administration
				pr.Group(func(ar chi.Router) {
					ar.Use(authHandler.RequireAdmin)

					ar.Get("/users", userHandler.ListUsers)
					ar.Get("/users/active", userHandler.ListActiveUsers)
					ar.Post("/users", userHandler.CreateUser)
					ar.Delete("/users/{userID}", userHandler.DeleteUser)
					ar.Post("/users/{userID}/approve", userHandler.ApproveUser)
					ar.Post("/users/{userID}/reject", userHandler.RejectUser)
					ar.Post("/users/{userID}/reset-password", userHandler.ResetPassword)
				})
			}

			if taskHandler != nil {
				pr.Route("/tasks", func(tr chi.Router) {
					tr.Post("/", taskHandler.CreateTask)
					tr.Get("/", taskHandler.ListTasks)
					tr.Get("/{taskID}", taskHandler.GetTask)
					tr.Post("/{taskID}/complete", taskHandler.CompleteTask)

					tr.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequireAdmin)
						mr.Patch("/{taskID}/priority", taskHandler.UpdatePriority)
						mr.Delete("/{taskID}", taskHandler.DeleteTask)
					})

					if activityHandler != nil {
						tr.Route("/{taskID}/followups", func(fr chi.Router) {
							fr.Get("/", activityHandler.ListNotes)
							fr.Post("/", activityHandler.AddNote)
						})

						tr.Route("/{taskID}/files", func(fr chi.Router) {
							fr.Get("/", activityHandler.ListFiles)
							fr.Post("/", activityHandler.UploadFile)
							fr.Get("/{fileID}", activityHandler.DownloadFile)
							fr.Delete("/{fileID}", activityHandler.DeleteFile)
						})
					}
				})
			}

			if reportHandler != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Get("/stats", reportHandler.GetStats)

					rr.Group(func(ar chi.Router) {
						ar.Use(authHandler.RequireAdmin)
						ar.Get("/overview", reportHandler.GetOverview)
					})
				})
			}
		})
	})
}
