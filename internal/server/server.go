package server

import (
	"context"
	"io"
	"log/slog"
	"time"

	"heavysync/internal/config"
	"heavysync/internal/handler"
	"heavysync/internal/metrics"
	"heavysync/internal/middleware"
	"heavysync/internal/model"
	"heavysync/internal/service"
	"heavysync/internal/ws"
	"heavysync/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

const appName = "HeavySync API"

// Deps is everything the HTTP layer needs. Hub, Metrics and LimiterStorage
// are optional.
type Deps struct {
	Context        context.Context
	Config         *config.Config
	Logger         *slog.Logger
	Services       *service.Services
	Tokens         *jwt.Manager
	Hub            *ws.Hub
	Metrics        *metrics.Metrics
	LimiterStorage fiber.Storage
	AccessLog      io.Writer
	StartedAt      time.Time
}

// New builds the fiber app with every middleware and route registered.
func New(d Deps) *fiber.App {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.StartedAt.IsZero() {
		d.StartedAt = time.Now()
	}
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: middleware.ErrorHandler(d.Logger, cfg.IsProduction()),
	})

	// Middleware
	if d.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: d.AccessLog}))
	} else {
		app.Use(logger.New())
	}
	if d.Metrics != nil {
		app.Use(d.Metrics.Middleware())
	}
	app.Use(middleware.Recover())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins(),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}
	if d.Hub != nil {
		app.Use("/ws", ws.Upgrade)
		app.Get("/ws", d.Hub.Handler(d.Context))
	}

	registerAPI(app, d)
	return app
}

func registerAPI(app *fiber.App, d Deps) {
	cfg := d.Config
	svc := d.Services

	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	supplierHandler := handler.NewSupplierHandler(svc.Suppliers)
	partHandler := handler.NewPartHandler(svc.Parts)
	orderHandler := handler.NewPurchaseOrderHandler(svc.PurchaseOrders)
	quotationHandler := handler.NewQuotationHandler(svc.Quotations)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
	healthHandler := handler.NewHealthHandler(d.StartedAt)

	api := app.Group("/api", middleware.RateLimit("api", cfg.RateLimitMax, cfg.RateLimitWindow, d.LimiterStorage))
	authLimit := middleware.RateLimit("auth", cfg.AuthRateLimitMax, cfg.RateLimitWindow, d.LimiterStorage)

	// Mutations may additionally require the admin role.
	requireAuth := middleware.RequireAuth(d.Tokens)
	var adminOnly []fiber.Handler
	if cfg.AdminOnlyMutations {
		adminOnly = append(adminOnly, middleware.RequireRole(string(model.RoleAdmin)))
	}
	mutate := with([]fiber.Handler{requireAuth}, adminOnly...)

	// ============ PUBLIC ROUTES ============
	api.Get("/health", healthHandler.Health)

	users := api.Group("/users")
	users.Post("/register", authLimit, middleware.ValidateBody[service.RegisterRequest](), authHandler.Register)
	users.Post("/login", authLimit, middleware.ValidateBody[service.LoginRequest](), authHandler.Login)
	users.Post("/check-username", middleware.ValidateBody[service.CheckUsernameRequest](), userHandler.CheckUsername)

	// ============ PROTECTED ROUTES ============
	users.Get("/me", requireAuth, userHandler.Me)
	users.Put("/me", requireAuth, middleware.ValidateBody[service.UpdateProfileRequest](), userHandler.UpdateProfile)
	users.Post("/change-password", requireAuth, middleware.ValidateBody[service.ChangePasswordRequest](), authHandler.ChangePassword)

	api.Get("/dashboard", requireAuth, dashboardHandler.Summary)

	// Supplier reads are public
	suppliers := api.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.Get)
	suppliers.Post("/", with(mutate, middleware.ValidateBody[service.CreateSupplierRequest](), supplierHandler.Create)...)
	suppliers.Put("/:id", with(mutate, middleware.ValidateBody[service.UpdateSupplierRequest](), supplierHandler.Update)...)
	suppliers.Delete("/:id", with(mutate, supplierHandler.Delete)...)

	orders := api.Group("/purchase-orders")
	var read, write []fiber.Handler
	if cfg.ProtectPurchaseOrders {
		read, write = []fiber.Handler{requireAuth}, mutate
	}
	orders.Get("/", with(read, orderHandler.List)...)
	orders.Get("/:id", with(read, orderHandler.Get)...)
	orders.Post("/", with(write, middleware.ValidateBody[service.CreatePurchaseOrderRequest](), orderHandler.Create)...)
	orders.Put("/:id", with(write, middleware.ValidateBody[service.UpdatePurchaseOrderRequest](), orderHandler.Update)...)
	orders.Delete("/:id", with(write, orderHandler.Delete)...)

	parts := api.Group("/parts", requireAuth)
	parts.Get("/", partHandler.List)
	parts.Get("/low-stock", partHandler.LowStock)
	parts.Get("/category/:categoryId", partHandler.ByCategory)
	parts.Get("/:id", partHandler.Get)
	parts.Post("/", with(adminOnly, middleware.ValidateBody[service.CreatePartRequest](), partHandler.Create)...)
	parts.Put("/:id", with(adminOnly, middleware.ValidateBody[service.UpdatePartRequest](), partHandler.Update)...)
	parts.Patch("/:id/quantity", with(adminOnly, middleware.ValidateBody[service.UpdateQuantityRequest](), partHandler.UpdateQuantity)...)
	parts.Delete("/:id", with(adminOnly, partHandler.Delete)...)

	quotations := api.Group("/quotations", requireAuth)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.Get)
	quotations.Get("/:id/comparison", quotationHandler.Compare)
	quotations.Post("/", with(adminOnly, middleware.ValidateBody[service.CreateQuotationRequest](), quotationHandler.Create)...)
	quotations.Put("/:id/status", with(adminOnly, middleware.ValidateBody[service.UpdateQuotationStatusRequest](), quotationHandler.UpdateStatus)...)
	quotations.Put("/:id/supplier/:supplierId", with(adminOnly, middleware.ValidateBody[service.UpdateQuoteRequest](), quotationHandler.UpdateQuote)...)
	quotations.Delete("/:id", with(adminOnly, quotationHandler.Delete)...)
}

// with appends the route's own handlers to a guard chain without aliasing it.
func with(guards []fiber.Handler, handlers ...fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+len(handlers))
	chain = append(chain, guards...)
	return append(chain, handlers...)
}
