package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/devahmid/27Degres-bis-sub001/config"
	"github.com/devahmid/27Degres-bis-sub001/database"
	"github.com/devahmid/27Degres-bis-sub001/events"
	"github.com/devahmid/27Degres-bis-sub001/realtime"
	"github.com/devahmid/27Degres-bis-sub001/routes"
	"github.com/devahmid/27Degres-bis-sub001/services/catalog"
	"github.com/devahmid/27Degres-bis-sub001/services/delivery"
	"github.com/devahmid/27Degres-bis-sub001/services/orders"
	"github.com/devahmid/27Degres-bis-sub001/services/users"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Service configuration",
		zap.String("port", cfg.Port),
		zap.String("kafka_brokers", cfg.KafkaBrokers),
		zap.Bool("auto_migrate", cfg.AutoMigrate))

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect DB", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("AutoMigrate failed", zap.Error(err))
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup

	hub := realtime.NewHub(logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()

	publishers := events.Multi{hub}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(brokers, cfg.KafkaOrderTopic, logger)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, order events are only streamed to the admin feed")
	}

	svc := routes.Services{
		DB:       db,
		Catalog:  catalog.NewService(db, logger),
		Delivery: delivery.NewService(db, logger),
		Users:    users.NewService(db),
		Orders:   orders.NewService(db, publishers, logger),
		Hub:      hub,
	}

	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(cfg, svc, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Server running", zap.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	// Hijacked websocket connections are not tracked by Shutdown; stopping the hub
	// closes them.
	stop()

	wg.Wait()
	logger.Info("Server stopped")
}

// newLogger builds a production JSON logger at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
