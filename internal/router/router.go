package router

import (
	"time"

	"comercio/internal/config"
	"comercio/internal/handler"
	"comercio/internal/middleware"
	"comercio/internal/repository"
	"comercio/internal/service"
	"comercio/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	clientRepo := repository.NewClientRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours, cfg.JWTRefreshHours)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, movementRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, dispatcher)
	expenseSvc := service.NewExpenseService(expenseRepo)
	clientSvc := service.NewClientService(clientRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	reportSvc := service.NewReportService(reportRepo, rdb)
	catalogSvc := service.NewCatalogService(productRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	clientsH := handler.NewClientsHandler(clientSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Public storefront catalog — read-only, no auth
	r.GET("/v1/catalog/:owner_id/products", catalogH.List)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, manager, admin — declared per-endpoint
		v1.POST("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.Create)
		v1.GET("/sales", middleware.RequireRole("cashier", "manager", "admin"), salesH.List)
		v1.GET("/sales/:id", middleware.RequireRole("cashier", "manager", "admin"), salesH.Get)
		v1.POST("/sales/:id/payments", middleware.RequireRole("cashier", "manager", "admin"), salesH.ApplyPayment)

		// Products — everyone reads, manager adjusts stock, admin writes
		v1.GET("/products", middleware.RequireRole("cashier", "manager", "admin"), productsH.List)
		v1.GET("/products/:id", middleware.RequireRole("cashier", "manager", "admin"), productsH.Get)
		v1.PATCH("/products/:id/stock", middleware.RequireRole("manager", "admin"), productsH.AdjustStock)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Categories — admin writes, all authenticated read
		v1.GET("/categories", middleware.RequireRole("cashier", "manager", "admin"), categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		// Expenses — manager and admin
		expenses := v1.Group("/expenses", middleware.RequireRole("manager", "admin"))
		{
			expenses.POST("", expensesH.Create)
			expenses.GET("", expensesH.List)
			expenses.GET("/:id", expensesH.Get)
			expenses.POST("/:id/pay", expensesH.Pay)
			expenses.POST("/:id/cancel", expensesH.Cancel)
		}

		// Clients — all authenticated (cashiers look up debtors at the counter)
		clients := v1.Group("/clients", middleware.RequireRole("cashier", "manager", "admin"))
		{
			clients.POST("", clientsH.Create)
			clients.GET("", clientsH.List)
			clients.GET("/:id", clientsH.Get)
			clients.PUT("/:id", clientsH.Update)
			clients.DELETE("/:id", clientsH.Deactivate)
		}

		// Suppliers — manager and admin
		suppliers := v1.Group("/suppliers", middleware.RequireRole("manager", "admin"))
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		// Reports — manager and admin
		v1.GET("/reports/summary", middleware.RequireRole("manager", "admin"), reportsH.Summary)

		// Users — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
