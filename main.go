package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wishnest/internal/handlers"
	"wishnest/internal/middleware"
	"wishnest/internal/models"
	"wishnest/internal/repositories"
	"wishnest/internal/services"
	"wishnest/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// A local .env is optional; environment variables win either way.
	_ = godotenv.Load()
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SQLITE_PATH", "wishnest.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	if level, err := log.ParseLevel(viper.GetString("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	// --- Database ---
	// Postgres when DATABASE_URL is set, a local SQLite file otherwise.
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Wishlist{},
		&models.Item{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Event publisher ---
	// Optional: without a broker the API runs fine, events are just skipped.
	var events services.EventPublisher
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient
			log.Println("RabbitMQ client connected, wishlist events enabled")
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	friendshipRepo := repositories.NewGORMFriendshipRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)
	itemRepo := repositories.NewGORMItemRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	friendService := services.NewFriendService(friendshipRepo, userRepo, events)
	wishlistService := services.NewWishlistService(wishlistRepo, friendService)
	itemService := services.NewItemService(itemRepo, wishlistService, friendService, events)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	friendHandler := handlers.NewFriendHandler(friendService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	itemHandler := handlers.NewItemHandler(itemService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := app.Group("/api/v1", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	friendHandler.RegisterRoutes(protected)
	wishlistHandler.RegisterRoutes(protected)
	itemHandler.RegisterRoutes(protected)

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured store. TranslateError is on so unique
// index violations arrive as gorm.ErrDuplicatedKey regardless of driver.
func openDatabase() (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), cfg)
}
