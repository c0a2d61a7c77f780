package router

import (
	"bilemo-api/internal/handler"
	"bilemo-api/internal/handler/auth"
	"bilemo-api/internal/handler/phones"
	"bilemo-api/internal/handler/users"
	"bilemo-api/internal/middleware"
	"bilemo-api/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Access denial reasons, one per protected operation.
const (
	ReasonListPhones  = "You do not have sufficient rights to list phones"
	ReasonGetPhone    = "You do not have sufficient rights to view a phone"
	ReasonCreatePhone = "You do not have sufficient rights to create a phone"
	ReasonUpdatePhone = "You do not have sufficient rights to edit a phone"
	ReasonDeletePhone = "You do not have sufficient rights to delete a phone"
	ReasonListUsers   = "You do not have sufficient rights to list users"
	ReasonGetUser     = "You do not have sufficient rights to view a user"
	ReasonCreateUser  = "You do not have sufficient rights to create a user"
	ReasonUpdateUser  = "You do not have sufficient rights to edit a user"
	ReasonDeleteUser  = "You do not have sufficient rights to delete a user"
)

// Tokens issues and verifies bearer tokens; *service.TokenService fits.
type Tokens interface {
	middleware.TokenVerifier
	auth.TokenIssuer
}

type Options struct {
	Deps   handler.Deps
	Tokens Tokens
	// Cache is pinged by the readiness probe.
	Cache handler.Pinger
	Log   zerolog.Logger
	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Setup installs the global middleware and registers every route.
func Setup(e *echo.Echo, o Options) {
	if o.Registerer == nil {
		o.Registerer = prometheus.DefaultRegisterer
	}
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(o.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bilemo",
		Registerer: o.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.GET("/health", handler.LivenessHandler())
	e.GET("/health/ready", handler.ReadinessHandler(o.Deps.DB, o.Cache))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.POST("/login_check", auth.LoginHandler(o.Deps.DB, o.Tokens))

	secured := api.Group("", middleware.RequireAuth(o.Tokens))
	anyone := []string{model.RoleUser, model.RoleAdmin}
	admin := []string{model.RoleAdmin}

	secured.GET("/phones", phones.ListPhonesHandler(o.Deps), middleware.RequireRoles(ReasonListPhones, anyone...))
	secured.GET("/phones/:id", phones.GetPhoneHandler(o.Deps), middleware.RequireRoles(ReasonGetPhone, anyone...))
	secured.POST("/phones", phones.CreatePhoneHandler(o.Deps), middleware.RequireRoles(ReasonCreatePhone, admin...))
	secured.PUT("/phones/:id", phones.UpdatePhoneHandler(o.Deps), middleware.RequireRoles(ReasonUpdatePhone, admin...))
	secured.DELETE("/phones/:id", phones.DeletePhoneHandler(o.Deps), middleware.RequireRoles(ReasonDeletePhone, admin...))

	secured.GET("/users", users.ListUsersHandler(o.Deps), middleware.RequireRoles(ReasonListUsers, anyone...))
	secured.GET("/users/:id", users.GetUserHandler(o.Deps), middleware.RequireRoles(ReasonGetUser, anyone...))
	secured.POST("/users", users.CreateUserHandler(o.Deps), middleware.RequireRoles(ReasonCreateUser, anyone...))
	secured.PUT("/users/:id", users.UpdateUserHandler(o.Deps), middleware.RequireRoles(ReasonUpdateUser, anyone...))
	secured.DELETE("/users/:id", users.DeleteUserHandler(o.Deps), middleware.RequireRoles(ReasonDeleteUser, anyone...))
}
