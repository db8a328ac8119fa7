package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/surgassist/records-api/docs"
	"github.com/surgassist/records-api/internal/api/handler"
	"github.com/surgassist/records-api/internal/api/middleware"
	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
	"github.com/surgassist/records-api/internal/infrastructure/http/handlers"
)

// Deps carries the wired services and infrastructure handles the router needs.
type Deps struct {
	Auth     ports.AuthService
	Reset    ports.ResetService
	Accounts ports.AccountService
	Tokens   ports.TokenIssuer

	DB  *mongo.Database
	RDB *redis.Client
	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// The login, reset, health, metrics, and swagger routes are public; every
// other route passes the Auth middleware, then any declared RBAC role set.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("surgassist"))

	authHandler := handler.NewAuthHandler(d.Auth)
	resetHandler := handler.NewResetHandler(d.Reset)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	sessionRequired := middleware.Auth(d.Tokens)

	// --- Public auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/reset/request", resetHandler.Request)
	e.POST("/auth/reset/redeem", resetHandler.Redeem)

	// --- Authenticated routes ---
	e.GET("/auth/me", authHandler.Me, sessionRequired)

	accounts := e.Group("/accounts", sessionRequired, middleware.RBAC(domain.RoleAdmin))
	accounts.POST("", accountHandler.Create)
	accounts.PUT("/:id/password", accountHandler.ChangePassword)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.DB, d.RDB)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
