package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/officehub-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/officehub-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/officehub-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// LoggerOptions describes the attributes stamped on every log line.
type LoggerOptions struct {
	App     string
	Version string
	Env     string
	Level   slog.Level
}

// NewLogger builds the JSON logger used for request and application logs,
// formatted with the ECS schema.
func NewLogger(out io.Writer, opts LoggerOptions) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       opts.Level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)
}

type Handlers struct {
	Room         RoomHandler
	Meeting      MeetingHandler
	Overtime     OvertimeHandler
	Notification NotificationHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
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

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send an Authorization header; the stream carries its own token
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			r.Route("/rooms", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionRoomView)).Get("/", h.Room.List)
				r.With(middleware.RequirePermission(user.PermissionRoomManage)).Post("/", h.Room.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionRoomView))
						r.Get("/", h.Room.Get)
						r.Get("/availability", h.Room.Availability)
						r.Get("/utilization", h.Room.Utilization)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionRoomManage))
						r.Put("/", h.Room.Update)
						r.Delete("/", h.Room.Delete)
					})
				})
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/", h.Meeting.List)
				r.Post("/", h.Meeting.Create)
				r.With(middleware.RequirePermission(user.PermissionMeetingAudit)).Get("/conflicts", h.Meeting.Conflicts)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Meeting.Get)
					r.Put("/reschedule", h.Meeting.Reschedule)
					r.Post("/cancel", h.Meeting.Cancel)
					r.Post("/rsvp", h.Meeting.RSVP)
				})
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/", h.Overtime.List)
				r.Post("/", h.Overtime.Submit)
				r.With(middleware.RequireManager).Get("/report/daily", h.Overtime.DailyReport)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Overtime.Get)
					r.Post("/cancel", h.Overtime.Cancel)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionOvertimeApprove))
						r.Post("/approve", h.Overtime.Approve)
						r.Post("/reject", h.Overtime.Reject)
					})
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/sse-token", h.Notification.GetSSEToken)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
