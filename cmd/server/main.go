package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cashapp "github.com/pos/backend/internal/application/cash"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	documentapp "github.com/pos/backend/internal/application/document"
	identityapp "github.com/pos/backend/internal/application/identity"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/event"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	lotRepo := persistence.NewGormLotRepository(db.DB)
	reserveRepo := persistence.NewGormReserveRepository(db.DB)
	journalRepo := persistence.NewGormStockTransactionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	manufacturerRepo := persistence.NewGormManufacturerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	correlativeRepo := persistence.NewGormCorrelativeRepository(db.DB)
	cashRepo := persistence.NewGormCashRepository(db.DB)
	cashReserveRepo := persistence.NewGormCashReserveRepository(db.DB)
	depositRepo := persistence.NewGormDepositRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	bankRepo := persistence.NewGormBankRepository(db.DB)
	bankAccountRepo := persistence.NewGormBankAccountRepository(db.DB)
	registerRepo := persistence.NewGormCashRegisterRepository(db.DB)
	shiftRepo := persistence.NewGormShiftRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Domain ledgers and transaction scope
	lotLedger := inventory.NewLotLedger(lotRepo, reserveRepo, journalRepo)
	cashLedger := cash.NewCashLedger(cashRepo, cashReserveRepo)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, manufacturerRepo, supplierRepo)
	identifierService := catalogapp.NewIdentifierService(manufacturerRepo, supplierRepo, branchRepo, customerRepo)
	inventoryService := inventoryapp.NewInventoryService(lotLedger, lotRepo, journalRepo, productRepo)
	documentService := documentapp.NewDocumentService(documentRepo, productRepo, lotLedger, txScope)
	correlativeService := documentapp.NewCorrelativeService(correlativeRepo, txScope)
	invoiceService := documentapp.NewInvoiceService(documentService, correlativeRepo, cashLedger, voucherRepo, registerRepo, txScope)
	depositService := cashapp.NewDepositService(depositRepo, bankAccountRepo, cashLedger, txScope)
	registerService := cashapp.NewRegisterService(registerRepo, shiftRepo, bankRepo, bankAccountRepo, cashRepo, voucherRepo)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	documentService.SetEventPublisher(eventBus)
	correlativeService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	depositService.SetEventPublisher(eventBus)
	registerService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	systemHandler := handler.NewSystemHandler(db.DB)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	identifierHandler := handler.NewIdentifierHandler(identifierService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	documentHandler := handler.NewDocumentHandler(documentService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	correlativeHandler := handler.NewCorrelativeHandler(correlativeService)
	registerHandler := handler.NewRegisterHandler(registerService)
	depositHandler := handler.NewDepositHandler(depositService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tighter rate limit on credential endpoints
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// User administration
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.RequireRole("admin"))
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.POST("/users/:id/reset-password", userHandler.ResetPassword)
	identityRoutes.POST("/users/:id/unlock", userHandler.Unlock)
	identityRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)

	// Catalog domain (products, identifiers, customers)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/barcode/:barcode", productHandler.GetByBarCode)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/skus", productHandler.AddSupplierSKU)
	catalogRoutes.DELETE("/products/:id/skus", productHandler.RemoveSupplierSKU)
	catalogRoutes.POST("/manufacturers", identifierHandler.CreateManufacturer)
	catalogRoutes.GET("/manufacturers", identifierHandler.ListManufacturers)
	catalogRoutes.POST("/suppliers", identifierHandler.CreateSupplier)
	catalogRoutes.GET("/suppliers", identifierHandler.ListSuppliers)
	catalogRoutes.POST("/branches", identifierHandler.CreateBranch)
	catalogRoutes.GET("/branches", identifierHandler.ListBranches)
	catalogRoutes.POST("/customers", identifierHandler.FindOrCreateCustomer)
	catalogRoutes.GET("/customers/:nit", identifierHandler.GetCustomerByNit)

	// Inventory domain (stock queries and traceability)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/products/:id/stock", inventoryHandler.GetStock)
	inventoryRoutes.GET("/products/:id/available", inventoryHandler.GetAvailable)
	inventoryRoutes.GET("/products/:id/history", inventoryHandler.History)
	inventoryRoutes.GET("/lots/expired", inventoryHandler.ListExpired)
	inventoryRoutes.GET("/lots/:id/history", inventoryHandler.LotHistory)
	inventoryRoutes.GET("/trace/:type/:id", inventoryHandler.TraceSource)

	// Document domain (invoices, receipts, shipments, adjustments)
	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.POST("", documentHandler.Create)
	documentRoutes.GET("", documentHandler.List)
	documentRoutes.GET("/:id", documentHandler.GetByID)
	documentRoutes.POST("/:id/products", documentHandler.AddProduct)
	documentRoutes.DELETE("/:id/details/:key", documentHandler.RemoveDetail)
	documentRoutes.POST("/:id/save", documentHandler.Save)
	documentRoutes.POST("/:id/payment", invoiceHandler.SaveWithPayment)
	documentRoutes.POST("/:id/payment/cancel", invoiceHandler.Cancel)
	documentRoutes.POST("/:id/cancel", documentHandler.Cancel)
	documentRoutes.DELETE("/:id", documentHandler.Discard)

	// Correlative ranges (admin only for creation)
	correlativeRoutes := router.NewDomainGroup("correlatives", "/correlatives")
	correlativeRoutes.POST("", middleware.RequireRole("admin"), correlativeHandler.Create)
	correlativeRoutes.GET("", correlativeHandler.List)
	correlativeRoutes.GET("/current", correlativeHandler.GetCurrent)
	correlativeRoutes.GET("/:id", correlativeHandler.GetByID)

	// Cash domain (registers, banks, deposits)
	cashRoutes := router.NewDomainGroup("cash", "/cash")
	cashRoutes.POST("/shifts", middleware.RequireRole("admin"), registerHandler.CreateShift)
	cashRoutes.GET("/shifts", registerHandler.ListShifts)
	cashRoutes.POST("/registers", registerHandler.Open)
	cashRoutes.GET("/registers/open", registerHandler.ListOpen)
	cashRoutes.GET("/registers/:id/balance", registerHandler.Balance)
	cashRoutes.POST("/registers/:id/close", registerHandler.Close)
	cashRoutes.POST("/banks", middleware.RequireRole("admin"), registerHandler.CreateBank)
	cashRoutes.GET("/banks", registerHandler.ListBanks)
	cashRoutes.GET("/banks/:id/accounts", registerHandler.ListBankAccounts)
	cashRoutes.POST("/accounts", middleware.RequireRole("admin"), registerHandler.CreateBankAccount)
	cashRoutes.POST("/deposits", depositHandler.Create)
	cashRoutes.GET("/deposits", depositHandler.List)
	cashRoutes.GET("/deposits/:id", depositHandler.GetByID)
	cashRoutes.POST("/deposits/:id/cash", depositHandler.AddCash)
	cashRoutes.DELETE("/deposits/:id/details/:key", depositHandler.RemoveDetail)
	cashRoutes.POST("/deposits/:id/save", depositHandler.Save)
	cashRoutes.POST("/deposits/:id/cancel", depositHandler.Cancel)
	cashRoutes.DELETE("/deposits/:id", depositHandler.Discard)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(catalogRoutes).
		Register(inventoryRoutes).
		Register(documentRoutes).
		Register(correlativeRoutes).
		Register(cashRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
