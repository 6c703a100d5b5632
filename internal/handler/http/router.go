package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/sagana-hq/workforce-backend-go/internal/handler/http/middleware"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	roleMiddleware *middleware.RoleMiddleware,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
	cashAdvanceHandler CashAdvanceHandler,
	contributionHandler ContributionHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

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

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(roleMiddleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
					r.Post("/{id}/overtime/approve", attendanceHandler.ApproveOvertime)
					r.Post("/{id}/overtime/reject", attendanceHandler.RejectOvertime)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(roleMiddleware.RequireAdmin)
					r.Put("/{id}", attendanceHandler.Correct)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Use(roleMiddleware.RequireManager)

				r.Post("/periods/{id}/generate", payrollHandler.Generate)

				r.Route("/records", func(r chi.Router) {
					r.Get("/", payrollHandler.List)
					r.Get("/{id}", payrollHandler.Get)
					r.Post("/{id}/approve", payrollHandler.Approve)
					r.Post("/{id}/release", payrollHandler.Release)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/requests", leaveHandler.CreateRequest)
				r.Get("/requests/my", leaveHandler.ListMyRequests)
				r.Post("/requests/{id}/cancel", leaveHandler.CancelRequest)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(roleMiddleware.RequireManager)
					r.Post("/requests/{id}/approve", leaveHandler.ApproveRequest)
					r.Post("/requests/{id}/reject", leaveHandler.RejectRequest)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(roleMiddleware.RequireAdmin)
					r.Post("/allocations/accrue", leaveHandler.AccrueAllocation)
					r.Put("/allocations/{id}", leaveHandler.CorrectAllocation)
				})
			})

			r.Route("/cash-advances", func(r chi.Router) {
				r.Post("/", cashAdvanceHandler.Request)
				r.Get("/my", cashAdvanceHandler.ListMy)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(roleMiddleware.RequireManager)
					r.Get("/", cashAdvanceHandler.ListByEmployee)
					r.Get("/{id}", cashAdvanceHandler.Get)
					r.Post("/{id}/approve", cashAdvanceHandler.Approve)
					r.Post("/{id}/reject", cashAdvanceHandler.Reject)
					r.Post("/{id}/disburse", cashAdvanceHandler.Disburse)
				})
			})

			r.Route("/contributions", func(r chi.Router) {
				r.Use(roleMiddleware.RequireManager)
				r.Get("/{scheme}/tables", contributionHandler.ListTables)
				r.Get("/{scheme}/tables/active", contributionHandler.GetActiveTable)
			})
		})
	})

	return r
}
