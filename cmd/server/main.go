package main // Entry point package

import (
	"context" // Context for startup database calls
	"log"     // Logging library
	"time"    // Startup timeouts

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/printforge/print-shop-service/internal/config"   // Internal config loader
	"github.com/printforge/print-shop-service/internal/database" // MySQL connection and schema bootstrap
	"github.com/printforge/print-shop-service/internal/handler"  // HTTP handlers
	"github.com/printforge/print-shop-service/internal/queue"    // RabbitMQ notification consumer
	"github.com/printforge/print-shop-service/internal/repository"
	"github.com/printforge/print-shop-service/internal/router"  // Internal router setup
	"github.com/printforge/print-shop-service/internal/service" // Lifecycle engine and event publisher
)

func main() {
	// Load variables from a .env file when present.  Missing files are
	// fine in production where the environment is set externally.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	quoteRepo := repository.NewQuoteRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	materialRepo := repository.NewMaterialRepo(db)
	staffRepo := repository.NewStaffRepo(db)

	seedStaff(ctx, staffRepo, cfg)

	engine := service.NewLifecycleEngine(quoteRepo, orderRepo, materialRepo, service.NewQueuePublisher())

	authHandler := handler.NewAuthHandler(cfg, staffRepo)
	quoteHandler := handler.NewQuoteHandler(engine)
	orderHandler := handler.NewOrderHandler(engine)
	materialHandler := handler.NewMaterialHandler(materialRepo)

	// Optional Redis client backing the submission rate limit and the
	// read cache.  Both middlewares degrade to no-ops when it is nil.
	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	// The notification consumer runs in the background and retries its
	// broker connection on failure, so errors here are non-fatal.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterPublic(e, quoteHandler, orderHandler, materialHandler, rlCfg, cacheCfg, rdb)
	router.RegisterStaff(e, quoteHandler, orderHandler, materialHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

// seedStaff creates the bootstrap staff account when no staff users
// exist yet.  The credentials come from STAFF_USER / STAFF_PASSWORD
// and default to admin/admin123 for local development.
func seedStaff(ctx context.Context, staff *repository.StaffRepo, cfg config.Config) {
	count, err := staff.Count(ctx)
	if err != nil {
		log.Fatalf("staff seed: %v", err)
	}
	if count > 0 {
		return
	}
	if _, err := staff.Create(ctx, cfg.SeedStaffUser, cfg.SeedStaffPass, cfg.BcryptCost); err != nil {
		log.Fatalf("staff seed: %v", err)
	}
	log.Printf("seeded staff account %q", cfg.SeedStaffUser)
}
