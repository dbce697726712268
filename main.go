package main

import (
	"context"
	"log"
	"os"

	"github.com/cjsachs/Management-Inventory-System/cmd"
	"github.com/cjsachs/Management-Inventory-System/internal/core/container"
	"github.com/cjsachs/Management-Inventory-System/internal/core/logger"
	"github.com/cjsachs/Management-Inventory-System/internal/core/routes"
	"github.com/cjsachs/Management-Inventory-System/internal/database"
	"github.com/cjsachs/Management-Inventory-System/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		appLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		appLogger.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("connected to the database")

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}
	if err := database.RunMigrations(dbURL, migrationsDir, appLogger); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	appContainer := container.NewAppContainer(db, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := appContainer.Notifier.Listen(ctx, dbURL); err != nil {
			appLogger.Error("change notification listener stopped", zap.Error(err))
		}
	}()
	go appContainer.Hub.Run()

	stop := appContainer.Coordinator.Start()
	defer stop()
	defer appContainer.StopActivityFeed()

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(appLogger))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		appLogger.Fatal("server stopped", zap.Error(err))
	}
}
