package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onegreenvn/outreach-dispatch-backend/docs"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/config"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/database/repository"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/router"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/auth"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/services/excel"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title Outreach Dispatch API
// @version 1.0
// @description Campaign message dispatch: activation, pause/resume and queue-derived status
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.one-green.io/support
// @contact.email support@one-green.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter `Bearer ` followed by your JWT token (e.g. "Bearer <token>")

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	configureLogging(cfg.LogLevel)

	if cfg.Server.BasePath != "" {
		docs.SwaggerInfo.BasePath = cfg.Server.BasePath
	}

	utils.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment)
	defer utils.FlushSentry()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	authService, err := auth.NewAuthService(cfg.JWT.Secret)
	if err != nil {
		logrus.Fatalf("Failed to initialize auth service: %v", err)
	}

	stores := repository.NewStores(db)
	locker := newCampaignLocker(cfg.Dispatch.LockMode, db)

	// Shared by the notifier and the SSE handlers
	sseHub := services.NewSSEHub()

	// RabbitMQ is optional: without it events only reach SSE clients and no reports are consumed
	var publisher services.EventPublisher
	rabbitMQService, err := services.NewRabbitMQService(cfg.RabbitMQ)
	if err != nil {
		logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
	} else {
		logrus.Info("RabbitMQ service initialized")
		defer rabbitMQService.Close()
		publisher = rabbitMQService
	}

	notifier := services.NewDispatchNotifier(sseHub, publisher)
	filter := services.NewContactFilter()
	assigner := services.NewInstanceAssigner(nil)

	campaignService := services.NewCampaignService(stores, filter, assigner, locker, notifier)
	activationService := services.NewActivationService(stores, filter, assigner, locker, notifier, cfg.Dispatch.ActivationBatchSize)
	pauseResumeService := services.NewPauseResumeService(stores, locker, notifier)

	if rabbitMQService != nil {
		reportService := services.NewTransportReportService(stores, notifier, rabbitMQService)
		if err := reportService.StartConsumer(cfg.RabbitMQ.ConsumerCount); err != nil {
			logrus.Warnf("Failed to start status report consumer: %v", err)
		} else {
			defer reportService.StopConsumer()
		}
	}

	instanceService := services.NewInstanceService(stores.Instances, notifier, cfg.Dispatch.InstancePollInterval)
	instanceService.Start()
	defer instanceService.Stop()

	gin.SetMode(gin.ReleaseMode)
	if logrus.GetLevel() >= logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	}

	r := router.SetupRouter(router.Options{
		CampaignService:    campaignService,
		ActivationService:  activationService,
		PauseResumeService: pauseResumeService,
		InstanceService:    instanceService,
		ExcelService:       excel.NewExcelService(stores),
		SSEHub:             sseHub,
		TokenValidator:     authService,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Server.Port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", cfg.Server.Port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// SSE streams are long-lived; the deadline bounds how long we wait for them
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func newCampaignLocker(mode string, db *gorm.DB) services.CampaignLocker {
	if mode == config.LockModePostgres {
		logrus.Info("Using postgres advisory locks for campaign operations")
		return services.NewPostgresCampaignLocker(db)
	}
	logrus.Warn("Using in-process locks for campaign operations; run a single replica and no dispatchctl writes")
	return services.NewLocalCampaignLocker()
}

func configureLogging(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
