package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/catalog-service/internal/api"
	"github.com/hypernova-labs/catalog-service/internal/config"
	"github.com/hypernova-labs/catalog-service/internal/database"
	"github.com/hypernova-labs/catalog-service/internal/events"
	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/hypernova-labs/catalog-service/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Configurar logging
	logger := setupLogger(cfg)
	logger.Info("Starting catalog service...")

	// Configurar modo de Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Crear el esquema antes de aceptar peticiones
	if err := database.EnsureSchema(cfg.GetDSN(), logger); err != nil {
		logger.Fatalf("Error ensuring product schema: %v", err)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	checks := map[string]api.HealthChecker{"database": db}
	var opts []services.ProductServiceOption

	// Conectar a Redis
	if cfg.Redis.Enabled {
		redis, err := database.ConnectRedis(cfg)
		if err != nil {
			logger.Warnf("Error connecting to Redis, product cache disabled: %v", err)
		} else {
			defer redis.Close()
			checks["redis"] = redis
			opts = append(opts, services.WithCache(database.NewProductCache(redis.Client, cfg.Redis.ProductTTL, logger)))
			logger.Info("Product cache enabled")
		}
	}

	// Conectar a RabbitMQ
	if cfg.Events.URL != "" {
		publisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, logger)
		if err != nil {
			logger.Warnf("Error connecting to RabbitMQ, product events disabled: %v", err)
		} else {
			defer publisher.Close()
			opts = append(opts, services.WithEvents(publisher))
			logger.Info("Product events enabled")
		}
	} else {
		logger.Warn("RabbitMQ URL not provided, product events will not be published")
	}

	// Inicializar servicios
	fixturePrice := models.Amount{
		Currency: models.Currency{Symbol: cfg.Pricing.FixtureCurrency},
		Value:    cfg.Pricing.FixtureUnitPrice,
	}
	productRepo := database.NewProductRepository(db, logger)
	productService := services.NewProductService(productRepo, fixturePrice, logger, opts...)
	pricingService := services.NewPricingService(services.FlatTaxPolicy{Rate: cfg.Pricing.FlatTaxRate}, logger)

	apiHandler := api.NewAPI(productService, pricingService, checks, cfg.IsDevelopment(), logger)
	router := api.NewRouter(apiHandler, logger)

	// Crear servidor HTTP
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Canal para señales de terminación
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	db.LogStats(logger)
	logger.Info("Server exited")
}

// setupLogger configura el logger según la configuración
func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
