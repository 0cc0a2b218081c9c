package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hearthstock/shopping-service/config"
	"github.com/hearthstock/shopping-service/internal/auth"
	"github.com/hearthstock/shopping-service/internal/model"
	"github.com/hearthstock/shopping-service/pkg/broker"
	"github.com/hearthstock/shopping-service/pkg/cache"
	"github.com/hearthstock/shopping-service/pkg/database/postgres"
	"github.com/hearthstock/shopping-service/pkg/logger"
	"github.com/hearthstock/shopping-service/pkg/search"

	invH "github.com/hearthstock/shopping-service/internal/inventory/handler"
	invRepoPkg "github.com/hearthstock/shopping-service/internal/inventory/repository"
	invUCPkg "github.com/hearthstock/shopping-service/internal/inventory/usecase"

	listH "github.com/hearthstock/shopping-service/internal/shoppinglist/handler"
	listListenerPkg "github.com/hearthstock/shopping-service/internal/shoppinglist/listener"
	listRepoPkg "github.com/hearthstock/shopping-service/internal/shoppinglist/repository"
	listUCPkg "github.com/hearthstock/shopping-service/internal/shoppinglist/usecase"

	purH "github.com/hearthstock/shopping-service/internal/purchase/handler"
	purRepoPkg "github.com/hearthstock/shopping-service/internal/purchase/repository"
	purUCPkg "github.com/hearthstock/shopping-service/internal/purchase/usecase"

	sessH "github.com/hearthstock/shopping-service/internal/session/handler"
	sessRepoPkg "github.com/hearthstock/shopping-service/internal/session/repository"
	sessUCPkg "github.com/hearthstock/shopping-service/internal/session/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
		logConfig.DisableCaller = cfg.Logger.DisableCaller
		logConfig.DisableStacktrace = cfg.Logger.DisableStacktrace
	}
	appLogger := logger.New(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.New(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	listRepo := listRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	sessRepo := sessRepoPkg.NewPGRepository(db)
	purRepo := purRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to the database)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	listUC := listUCPkg.NewListUseCase(listRepo, redisClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, appLogger)
	purUC := purUCPkg.NewPurchaseUseCase(purRepo, esClient, appLogger)
	sessUC := sessUCPkg.NewSessionUseCase(sessRepo, listRepo, invUC, purUC, redisClient, appLogger)

	// 6.5 Initialize Listeners
	suggestionListener := listListenerPkg.NewSuggestionListener(kafkaConsumer, listUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go suggestionListener.Start(ctx)

	// 7. Initialize Handlers
	listHandler := listH.NewListHandler(listUC, appLogger)
	invHandler := invH.NewInventoryHandler(invUC, appLogger)
	sessHandler := sessH.NewSessionHandler(sessUC, cfg.Shopping.DefaultLocation, appLogger)
	purHandler := purH.NewPurchaseHandler(purUC, appLogger)

	// 8. Build HTTP Router
	if !logConfig.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
			return model.Unit(fl.Field().String()).Valid()
		})
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Household-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.Use(auth.Middleware())
	listHandler.RegisterRoutes(api)
	invHandler.RegisterRoutes(api)
	sessHandler.RegisterRoutes(api)
	purHandler.RegisterRoutes(api)

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
