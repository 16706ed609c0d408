package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feedyapp/feedy-api/internal/api/handler"
	"github.com/feedyapp/feedy-api/internal/api/middleware"
	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// Deps carries everything the router needs to register routes.
type Deps struct {
	DB    *mongo.Database
	Redis *redis.Client

	Tokens     ports.TokenService
	Auth       ports.AuthService
	Titles     ports.TitleService
	Entries    ports.EntryService
	Categories ports.CategoryService
	Users      ports.UserService

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("feedy"))

	auth := middleware.Auth(deps.Tokens)

	authHandler := handler.NewAuthHandler(deps.Auth)
	titleHandler := handler.NewTitleHandler(deps.Titles)
	entryHandler := handler.NewEntryHandler(deps.Entries)
	categoryHandler := handler.NewCategoryHandler(deps.Categories)
	userHandler := handler.NewUserHandler(deps.Users, deps.Entries)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/signin", authHandler.SignIn)
	authGroup.GET("/signout", authHandler.SignOut, auth)
	authGroup.GET("/check-token", authHandler.CheckToken, auth)
	authGroup.GET("/me", authHandler.Me, auth)
	authGroup.PUT("/signin/account-recovery", authHandler.AccountRecovery)
	authGroup.GET("/account-verification", authHandler.AccountVerification)

	// --- Title routes ---
	titleGroup := v1.Group("/title")
	titleGroup.GET("/search", titleHandler.Search)
	titleGroup.GET("/all", titleHandler.List)
	titleGroup.POST("/create-title", titleHandler.Create, auth, middleware.MinRole(domain.RoleJuniorAuthor))
	titleGroup.GET("/:queryData", titleHandler.Get)
	titleGroup.PATCH("/:titleId", titleHandler.Update, auth, middleware.MinRole(domain.RoleAdmin))
	titleGroup.PATCH("/:titleId/rate", titleHandler.Rate, auth)
	titleGroup.GET("/:titleId/rate-of-user", titleHandler.RateOfUser, auth)
	titleGroup.GET("/:titleId/average-rate", titleHandler.AverageRate)
	titleGroup.DELETE("/:titleId", titleHandler.Delete, auth, middleware.MinRole(domain.RoleSuperAdmin))

	// --- Entry routes ---
	entryGroup := v1.Group("/entry")
	entryGroup.POST("/create-entry", entryHandler.Create, auth)
	entryGroup.GET("/by-title/:titleId/all", entryHandler.ListByTitle)
	entryGroup.GET("/by-title/:titleId/featured", entryHandler.Featured)
	entryGroup.GET("/by-author/:username/all", entryHandler.ListByAuthor)
	entryGroup.PATCH("/up-vote/:entryId", entryHandler.UpVote, auth)
	entryGroup.PATCH("/down-vote/:entryId", entryHandler.DownVote, auth)
	entryGroup.PATCH("/undo-vote/:entryId", entryHandler.UndoVote, auth)
	entryGroup.GET("/:entryId", entryHandler.Get)
	entryGroup.PATCH("/:entryId", entryHandler.Update, auth)
	entryGroup.DELETE("/:entryId", entryHandler.Delete, auth)

	// --- Category routes ---
	categoryGroup := v1.Group("/category")
	categoryGroup.GET("/all", categoryHandler.ListAll)
	categoryGroup.GET("/tree", categoryHandler.Tree)
	categoryGroup.GET("/trending-categories", categoryHandler.Trending)
	categoryGroup.POST("", categoryHandler.Create, auth, middleware.MinRole(domain.RoleAdmin))
	categoryGroup.PATCH("/:categoryId", categoryHandler.Update, auth, middleware.MinRole(domain.RoleAdmin))
	categoryGroup.DELETE("/:categoryId", categoryHandler.Delete, auth, middleware.MinRole(domain.RoleSuperAdmin))

	// --- User routes ---
	userGroup := v1.Group("/user")
	userGroup.PUT("/pp", userHandler.UploadPicture, auth)
	userGroup.GET("/:username", userHandler.Get)
	userGroup.GET("/:username/pp", userHandler.Picture)
	userGroup.GET("/:username/votes", userHandler.Votes)
	userGroup.PATCH("/:username", userHandler.UpdateProfile, auth)
	userGroup.PATCH("/:username/role", userHandler.SetRole, auth, middleware.MinRole(domain.RoleSuperAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
