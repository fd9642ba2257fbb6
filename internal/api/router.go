package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/dayconfig"
	"github.com/clinicore/agenda-api/internal/inventory"
	"github.com/clinicore/agenda-api/internal/notification"
	"github.com/clinicore/agenda-api/internal/payment"
	"github.com/clinicore/agenda-api/internal/report"
	"github.com/clinicore/agenda-api/internal/space"
	"github.com/clinicore/agenda-api/internal/user"
)

type RouterConfig struct {
	Appointments  *appointment.Service
	DayConfigs    *dayconfig.Store
	Spaces        space.Repository
	Users         user.Repository
	Auth          *user.AuthService
	Payments      payment.Repository
	Inventory     *inventory.Service
	Stats         *report.StatsRepository
	Notifications notification.Repository
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Log           *zap.Logger
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Public endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Post("/auth/login", loginHandler(cfg.Auth))

	// Everything else requires a valid token
	r.Group(func(r chi.Router) {
		r.Use(Authenticator(cfg.Auth))

		r.Get("/auth/me", meHandler(cfg.Users))

		r.Route("/citas", func(r chi.Router) {
			r.Post("/", createAppointmentHandler(cfg.Appointments))
			r.Get("/", listAppointmentsHandler(cfg.Appointments))
			r.Post("/check", checkSlotHandler(cfg.Appointments))
			r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
			r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
			r.Patch("/{id}/estado", updateAppointmentStatusHandler(cfg.Appointments))
			r.With(RequireRole()).Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
		})

		r.Route("/agenda", func(r chi.Router) {
			r.Get("/grid", agendaGridHandler(cfg.Appointments, cfg.Spaces, cfg.DayConfigs))
			r.Post("/grid/select", selectCellHandler(cfg.Appointments, cfg.DayConfigs))
			r.Get("/config", getDayConfigHandler(cfg.DayConfigs))
			r.Put("/config", saveDayConfigHandler(cfg.DayConfigs))
			r.Post("/config/preview", previewDayConfigHandler())
		})

		r.Route("/espacios", func(r chi.Router) {
			r.Get("/", listSpacesHandler(cfg.Spaces))
			r.Get("/{id}", getSpaceHandler(cfg.Spaces))
			r.With(RequireRole()).Post("/", createSpaceHandler(cfg.Spaces))
			r.With(RequireRole()).Put("/{id}", updateSpaceHandler(cfg.Spaces))
			r.With(RequireRole()).Delete("/{id}", deleteSpaceHandler(cfg.Spaces))
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.Use(RequireRole())
			r.Get("/", listUsersHandler(cfg.Users))
			r.Post("/", createUserHandler(cfg.Auth))
			r.Put("/{id}", updateUserHandler(cfg.Users))
			r.Put("/{id}/password", changePasswordHandler(cfg.Auth))
			r.Delete("/{id}", deleteUserHandler(cfg.Users))
		})

		r.Route("/pagos", func(r chi.Router) {
			r.Use(RequireRole(user.RoleReception))
			r.Post("/", createPaymentHandler(cfg.Payments))
			r.Get("/", listPaymentsHandler(cfg.Payments))
			r.Patch("/{id}/estado", updatePaymentStatusHandler(cfg.Payments))
			r.Delete("/{id}", deletePaymentHandler(cfg.Payments))
		})

		r.Route("/inventario", func(r chi.Router) {
			r.Use(RequireRole(user.RoleReception))
			r.Get("/items", listItemsHandler(cfg.Inventory))
			r.Post("/items", createItemHandler(cfg.Inventory))
			r.Put("/items/{id}", updateItemHandler(cfg.Inventory))
			r.Delete("/items/{id}", deleteItemHandler(cfg.Inventory))
			r.Post("/items/{id}/venta", sellItemHandler(cfg.Inventory))
			r.Get("/prestamos", listLoansHandler(cfg.Inventory))
			r.Post("/prestamos", createLoanHandler(cfg.Inventory))
			r.Post("/prestamos/{id}/devolucion", returnLoanHandler(cfg.Inventory))
		})

		r.Route("/reportes", func(r chi.Router) {
			r.Use(RequireRole(user.RoleReception))
			r.Get("/dashboard", dashboardHandler(cfg.Stats))
			r.Get("/citas.csv", exportAppointmentsCSVHandler(cfg.Appointments))
			r.Get("/pagos.csv", exportPaymentsCSVHandler(cfg.Payments))
		})

		r.Route("/notificaciones", func(r chi.Router) {
			r.Get("/", listNotificationsHandler(cfg.Notifications))
			r.Patch("/{id}/leida", markNotificationReadHandler(cfg.Notifications))
		})
	})

	return r
}
