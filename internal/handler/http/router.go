package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Task       TaskHandler
	Analytics  AnalyticsHandler
	Events     EventsHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	Metrics        *metrics.Metrics
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(opts.Metrics.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/session", h.Auth.StartSession)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Get("/me", h.Auth.Me)
				r.Post("/logout", h.Auth.EndSession)
				r.Post("/sse-token", h.Auth.SSEToken)
			})
		})

		// The stream authenticates with a short-lived query token
		r.Get("/events/stream", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/", h.Attendance.Record)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.MyHistory)
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Leave.ListRequests)
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/my", h.Task.ListMine)
				r.Post("/{id}/toggle", h.Task.Toggle)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Task.List)
					r.Post("/", h.Task.Create)
				})
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/", h.Employee.List)
				r.Post("/", h.Employee.Create)
				r.Get("/branches", h.Employee.Branches)
				r.Get("/{id}", h.Employee.Get)
				r.Delete("/{id}", h.Employee.Delete)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/my-dashboard", h.Analytics.MyDashboard)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/stats", h.Analytics.Stats)
					r.Get("/stats/export", h.Analytics.ExportStats)
					r.Get("/employees/{id}/history", h.Analytics.History)
					r.Get("/daily-status", h.Analytics.DailyStatus)
					r.Post("/evaluate", h.Analytics.Evaluate)
				})
			})
		})
	})
	return r
}
