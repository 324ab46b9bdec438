package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-ledger/internal/cache"
	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLog := config.NewLogger(cfg)

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), cfg.DBLogLevel)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(
		&model.User{}, &model.Product{}, &model.GoodsIn{}, &model.GoodsOut{},
		&model.Category{}, &model.StorageLocation{}, &model.NoteType{},
		&model.Supplier{}, &model.Customer{}, &model.Vendor{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 3. Dashboard cache (optional)
	var dashCache *cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		dashCache = cache.New(rdb, cfg.DashboardCacheTTL)
		appLog.Info("dashboard cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.DashboardCacheTTL)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(appLog)
	go wsHub.Run()
	notifier := service.NewNotifier(dashCache, wsHub, appLog)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	userRepo := repository.NewUserRepo(db)

	productService := service.NewProductService(productRepo, notifier)
	goodsInService := service.NewGoodsInService(repository.NewGoodsInRepo(db), stockRepo, notifier, appLog)
	goodsOutService := service.NewGoodsOutService(
		repository.NewGoodsOutRepo(db), productRepo, stockRepo, notifier, cfg.StockOutTracking, appLog,
	)
	dashService := service.NewDashboardService(repository.NewDashboardRepo(db), dashCache, cfg.LowStockThreshold, appLog)
	authService := service.NewAuthService(userRepo, jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL))
	userService := service.NewUserService(userRepo)

	categoryService := service.NewNamedService[model.Category](repository.NewRepository[model.Category](db), "category", true)
	locationService := service.NewNamedService[model.StorageLocation](repository.NewRepository[model.StorageLocation](db), "storage location", false)
	noteTypeService := service.NewNamedService[model.NoteType](repository.NewRepository[model.NoteType](db), "note type", false)

	handlers := handler.Handlers{
		Auth:            handler.NewAuthHandler(authService),
		Users:           handler.NewUserHandler(userService),
		Products:        handler.NewProductHandler(productService),
		GoodsIn:         handler.NewGoodsInHandler(goodsInService),
		GoodsOut:        handler.NewGoodsOutHandler(goodsOutService),
		Dashboard:       handler.NewDashboardHandler(dashService),
		Categories:      handler.NewNamedHandler(categoryService, "Category"),
		StorageLocation: handler.NewNamedHandler(locationService, "Storage location"),
		NoteTypes:       handler.NewNamedHandler(noteTypeService, "Note type"),
		Suppliers:       handler.NewSupplierHandler(service.NewSupplierService(repository.NewRepository[model.Supplier](db))),
		Customers:       handler.NewContactHandler(service.NewCustomerService(repository.NewRepository[model.Customer](db)), "Customer"),
		Vendors:         handler.NewContactHandler(service.NewVendorService(repository.NewRepository[model.Vendor](db)), "Vendor"),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handler.ErrorHandler(appLog),
		UnescapePath: true,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// 7. Routes
	handler.Register(app, handlers, middleware.RequireAuth(authService))

	// WebSocket Route
	app.Use("/ws", middleware.RequireWebSocketAuth(authService))
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	appLog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}
	appLog.Info("server exited")
}
