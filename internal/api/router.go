package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/moneytrail/wallet-api/docs"
	"github.com/moneytrail/wallet-api/internal/api/handler"
	"github.com/moneytrail/wallet-api/internal/api/middleware"
	"github.com/moneytrail/wallet-api/internal/core/policy"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

// Services bundles the use cases the HTTP layer exposes.
type Services struct {
	Auth         ports.AuthService
	Gate         ports.Gate
	Users        ports.UserService
	Categories   ports.CategoryService
	Transactions ports.TransactionService
	Groups       ports.GroupService
}

// NewRouter builds and returns the Echo instance with all routes registered.
// checks feeds the readiness probe; metrics toggles the Prometheus middleware
// and endpoint, which register against the global registry.
func NewRouter(svc Services, log zerolog.Logger, checks map[string]handler.Pinger, metrics bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	if metrics {
		e.Use(echoprometheus.NewMiddleware("wallet"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	categoryHandler := handler.NewCategoryHandler(svc.Categories)
	transactionHandler := handler.NewTransactionHandler(svc.Transactions, svc.Groups)
	groupHandler := handler.NewGroupHandler(svc.Groups)

	api := e.Group("/api")

	// --- Account lifecycle ---
	api.POST("/register", authHandler.Register)
	api.POST("/admin", authHandler.RegisterAdmin)
	api.POST("/login", authHandler.Login)
	api.GET("/logout", authHandler.Logout)

	auth := middleware.Auth(svc.Gate)
	guard := func(op policy.Operation, resolve middleware.TargetResolver) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{auth, middleware.Authorize(op, resolve)}
	}
	self := middleware.RouteUser
	member := groupHandler.ResolveGroup

	// --- Users ---
	api.GET("/users", userHandler.List, guard(policy.ListUsers, nil)...)
	api.GET("/users/:username", userHandler.Get, guard(policy.GetUser, self)...)
	api.DELETE("/users", userHandler.Delete, guard(policy.DeleteUser, nil)...)

	// --- Categories ---
	api.POST("/categories", categoryHandler.Create, guard(policy.CreateCategory, nil)...)
	api.PATCH("/categories/:type", categoryHandler.Update, guard(policy.UpdateCategory, nil)...)
	api.DELETE("/categories", categoryHandler.Delete, guard(policy.DeleteCategories, nil)...)
	api.GET("/categories", categoryHandler.List, guard(policy.ListCategories, nil)...)

	// --- Transactions ---
	api.POST("/users/:username/transactions", transactionHandler.Create, guard(policy.CreateTransaction, self)...)
	api.GET("/users/:username/transactions", transactionHandler.ListByUser, guard(policy.ListUserTransactions, self)...)
	api.GET("/users/:username/transactions/category/:category", transactionHandler.ListByUserCategory, guard(policy.ListUserCategoryTransactions, self)...)
	api.DELETE("/users/:username/transactions", transactionHandler.Delete, guard(policy.DeleteTransaction, self)...)
	api.GET("/groups/:name/transactions", transactionHandler.ListByGroup, guard(policy.ListGroupTransactions, member)...)
	api.GET("/groups/:name/transactions/category/:category", transactionHandler.ListByGroup, guard(policy.ListGroupCategoryTransactions, member)...)

	api.GET("/transactions", transactionHandler.ListAll, guard(policy.ListAllTransactions, nil)...)
	api.DELETE("/transactions", transactionHandler.DeleteMany, guard(policy.DeleteTransactions, nil)...)
	api.GET("/transactions/users/:username", transactionHandler.ListByUser, guard(policy.ListUserTransactionsAdmin, nil)...)
	api.GET("/transactions/users/:username/category/:category", transactionHandler.ListByUserCategory, guard(policy.ListUserCategoryTransactionsAdmin, nil)...)
	api.GET("/transactions/groups/:name", transactionHandler.ListByGroup, guard(policy.ListGroupTransactionsAdmin, nil)...)
	api.GET("/transactions/groups/:name/category/:category", transactionHandler.ListByGroup, guard(policy.ListGroupCategoryTransactionsAdmin, nil)...)

	// --- Groups ---
	api.POST("/groups", groupHandler.Create, guard(policy.CreateGroup, nil)...)
	api.GET("/groups", groupHandler.List, guard(policy.ListGroups, nil)...)
	api.GET("/groups/:name", groupHandler.Get, guard(policy.GetGroup, member)...)
	api.PATCH("/groups/:name/add", groupHandler.Add, guard(policy.AddToGroup, member)...)
	api.PATCH("/groups/:name/insert", groupHandler.Add, guard(policy.InsertIntoGroup, nil)...)
	api.PATCH("/groups/:name/remove", groupHandler.Remove, guard(policy.RemoveFromGroup, member)...)
	api.PATCH("/groups/:name/pull", groupHandler.Remove, guard(policy.PullFromGroup, nil)...)
	api.DELETE("/groups", groupHandler.Delete, guard(policy.DeleteGroup, nil)...)

	return e
}
