package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/staffhub-id/hr-backend-go/internal/domain/user"
	"github.com/staffhub-id/hr-backend-go/internal/handler/http/middleware"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/jwt"
)

func NewRouter(logger *slog.Logger, jwtService jwt.Service, leaveHandler LeaveHandler, notifHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// The stream authenticates itself via a short-lived token in the
		// query string, so it sits outside the Verifier group.
		r.Get("/notifications/stream", notifHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leaves", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveCreate))
					r.Post("/", leaveHandler.Create)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveViewOwn))
					r.Get("/", leaveHandler.List)
					r.Get("/{id}", leaveHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionBalanceViewOwn))
					r.Get("/balance", leaveHandler.GetBalance)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveApprove))
					r.Get("/pending", leaveHandler.ListPending)
					r.Post("/{id}/approve", leaveHandler.Approve)
					r.Post("/{id}/reject", leaveHandler.Reject)
				})

				// Every role may reach cancel; the service enforces that
				// non-privileged callers only cancel their own requests.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveCancel))
					r.Delete("/{id}", leaveHandler.Cancel)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionNotificationView))
				r.Get("/", notifHandler.List)
				r.Get("/unread-count", notifHandler.UnreadCount)
				r.Post("/mark-read", notifHandler.MarkAsRead)
				r.Post("/mark-all-read", notifHandler.MarkAllAsRead)
				r.Get("/sse-token", notifHandler.GetSSEToken)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
