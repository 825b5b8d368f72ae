package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/mentorhub/mentoring-api/internal/api/handler"
	"github.com/mentorhub/mentoring-api/internal/api/middleware"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
	"github.com/mentorhub/mentoring-api/internal/infrastructure/http/handlers"
)

// Dependencies is everything the HTTP surface needs, built by main.
type Dependencies struct {
	Log          zerolog.Logger
	Auth         ports.AuthService
	Users        ports.UserService
	Categories   ports.CategoryService
	Offerings    ports.OfferingService
	Reservations ports.ReservationService
	// UserStore backs the gate's per-request role lookup.
	UserStore    middleware.UserFinder
	HealthChecks map[string]handlers.Check
	// Registry defaults to the global Prometheus registry.
	Registry *prometheus.Registry
}

// route is one row of the access table. A public route has no gate; any
// other route admits only the listed roles.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	public  bool
	roles   []domain.Role
}

var allRoles = []domain.Role{domain.RoleAdmin, domain.RoleNormalUser, domain.RoleMentor}

func routes(d Dependencies) []route {
	auth := handler.NewAuthHandler(d.Auth)
	users := handler.NewUserHandler(d.Users)
	categories := handler.NewCategoryHandler(d.Categories)
	offerings := handler.NewOfferingHandler(d.Offerings)
	reservations := handler.NewReservationHandler(d.Reservations)

	admin := []domain.Role{domain.RoleAdmin}
	mentor := []domain.Role{domain.RoleMentor}

	return []route{
		{method: http.MethodPost, path: "/users/auth/register", handler: auth.Register, public: true},
		{method: http.MethodPost, path: "/users/auth/login", handler: auth.Login, public: true},

		{method: http.MethodGet, path: "/users/current-user", handler: users.Current, roles: allRoles},
		{method: http.MethodGet, path: "/users", handler: users.List, roles: admin},
		{method: http.MethodGet, path: "/users/mentors", handler: users.Mentors, public: true},
		{method: http.MethodPut, path: "/users", handler: users.UpdateProfile, roles: allRoles},
		{method: http.MethodDelete, path: "/users/:id", handler: users.Delete, roles: allRoles},
		{method: http.MethodPut, path: "/users/:id/role", handler: users.ChangeRole, roles: admin},

		{method: http.MethodPost, path: "/categories", handler: categories.Create, roles: admin},
		{method: http.MethodGet, path: "/categories", handler: categories.List, public: true},
		{method: http.MethodGet, path: "/categories/:id", handler: categories.Get, public: true},

		{method: http.MethodPost, path: "/services", handler: offerings.Create, roles: mentor},
		{method: http.MethodGet, path: "/services", handler: offerings.List, public: true},
		{method: http.MethodGet, path: "/services/:id", handler: offerings.Get, public: true},
		{method: http.MethodGet, path: "/services/mentor/:mentorId", handler: offerings.ListByMentor, public: true},
		{method: http.MethodPut, path: "/services/:id", handler: offerings.Update, roles: mentor},
		{method: http.MethodDelete, path: "/services/:id", handler: offerings.Delete, roles: mentor},

		{method: http.MethodPost, path: "/reservations/:userId/:serviceId", handler: reservations.Create, roles: []domain.Role{domain.RoleNormalUser}},
		{method: http.MethodPatch, path: "/reservations/:id/status/:userId/:userRole", handler: reservations.UpdateStatus, roles: []domain.Role{domain.RoleNormalUser, domain.RoleMentor}},
		{method: http.MethodGet, path: "/reservations", handler: reservations.List, roles: admin},
		{method: http.MethodGet, path: "/reservations/:id", handler: reservations.Get, roles: allRoles},
		{method: http.MethodGet, path: "/reservations/user/:userId", handler: reservations.ListForUser, roles: []domain.Role{domain.RoleAdmin, domain.RoleNormalUser}},
		{method: http.MethodGet, path: "/reservations/mentor/:mentorId", handler: reservations.ListForMentor, roles: mentor},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper:    skipOperational,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealthHandler()
	ready := handlers.NewHealthDependenciesHandler(d.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", ready.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API routes ---
	gate := middleware.NewGate(d.Auth, d.UserStore)
	for _, r := range routes(d) {
		if r.public {
			e.Add(r.method, r.path, r.handler)
			continue
		}
		e.Add(r.method, r.path, r.handler, gate.Require(r.roles...))
	}

	return e
}

func skipOperational(c echo.Context) bool {
	p := c.Path()
	return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
