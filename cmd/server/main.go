package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"residence-be-svc/docs"
	"residence-be-svc/internal/config"
	"residence-be-svc/internal/database"
	"residence-be-svc/internal/handler"
	"residence-be-svc/internal/middleware"
	"residence-be-svc/internal/repository"
	"residence-be-svc/internal/scheduler"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
)

// @title Residence Backend Service API
// @version 1.0
// @description RESTful API for residential community management: residents, service providers, complaints and maintenance bills

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting Residence Backend Service...")
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Database connection failed")
	}
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithError(err).Fatal("Schema migration failed")
	}
	appLogger.Info("Database ready")

	adminRepo := repository.NewAdminRepository(db.DB)
	residentRepo := repository.NewResidentRepository(db.DB)
	providerRepo := repository.NewServiceProviderRepository(db.DB)
	complaintRepo := repository.NewComplaintRepository(db.DB)
	billRepo := repository.NewBillRepository(db.DB)
	logSchedulerRepo := repository.NewLogSchedulerRepository(db.DB)

	blacklist, redisClient := newTokenBlacklist(cfg, appLogger)

	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := service.NewAuthService(adminRepo, residentRepo, providerRepo, tokenService, blacklist, appLogger)
	billService := service.NewBillService(billRepo, residentRepo, appLogger)
	services := handler.Services{
		Auth:            authService,
		Resident:        service.NewResidentService(residentRepo, appLogger),
		Complaint:       service.NewComplaintService(complaintRepo, residentRepo, appLogger),
		ServiceProvider: service.NewServiceProviderService(providerRepo, appLogger),
		Bill:            billService,
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedAdmin(seedCtx, cfg.Seed); err != nil {
		appLogger.WithError(err).Error("Failed to seed super admin")
	}
	seedCancel()

	billingScheduler := scheduler.NewBillingScheduler(billService, logSchedulerRepo, appLogger, cfg.Scheduler)
	if err := billingScheduler.Start(); err != nil {
		appLogger.WithError(err).Fatal("Failed to start billing scheduler")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, services, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"port":    cfg.Server.Port,
			"swagger": fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port),
		}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-ctx.Done()
	stop()
	appLogger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	// no job may touch the database after it closes
	billingScheduler.Stop()

	if err := db.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close database connection")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.WithError(err).Error("Failed to close redis connection")
		}
	}

	appLogger.Info("Server exited")
}

// newTokenBlacklist picks the revocation store. The redis client is returned
// so main can close it; it is nil for the memory driver.
func newTokenBlacklist(cfg *config.Config, appLogger *logger.Logger) (service.TokenBlacklist, *redis.Client) {
	if cfg.Blacklist.Driver != "redis" {
		appLogger.Info("Using in-memory token blacklist")
		return service.NewMemoryTokenBlacklist(), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		appLogger.WithError(err).Fatal("Invalid REDIS_URL")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		appLogger.WithError(err).Warn("Redis is not reachable yet, blacklist checks will fail until it is")
	}

	breaker := config.NewCircuitBreaker("Redis-Blacklist", appLogger)
	appLogger.Info("Using redis token blacklist")
	return service.NewRedisTokenBlacklist(client, breaker, cfg.JWT.TTL, appLogger), client
}

func newRouter(cfg *config.Config, services handler.Services, appLogger *logger.Logger) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		middleware.CORS(cfg.CORS.AllowedOriginList()),
		middleware.LoggerMiddleware(appLogger),
		middleware.Metrics(),
		middleware.ErrorHandler(),
	)
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	handler.SetupRoutes(router, services, appLogger)
	return router
}
