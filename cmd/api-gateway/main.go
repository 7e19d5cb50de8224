package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/training-registration-api/api/swagger"
	"github.com/noah-isme/training-registration-api/internal/handler"
	"github.com/noah-isme/training-registration-api/internal/middleware"
	"github.com/noah-isme/training-registration-api/internal/platform"
	"github.com/noah-isme/training-registration-api/internal/realtime"
	"github.com/noah-isme/training-registration-api/internal/repository"
	"github.com/noah-isme/training-registration-api/internal/service"
	"github.com/noah-isme/training-registration-api/pkg/config"
	"github.com/noah-isme/training-registration-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/training-registration-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/training-registration-api/pkg/middleware/requestid"
)

// @title Training Registration API
// @version 1.0.0
// @description Public sign-up for the internal training and the HR review dashboard
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()

	backend, err := platform.Open(ctx, cfg, metricsSvc.ObserveStorage, logr)
	if err != nil {
		logr.Fatal("failed to open backend", zap.Error(err))
	}
	defer backend.Close()

	loc := cfg.Location()
	repo := repository.NewRegistrationRepository(backend.Store, cfg.Storage.Key)
	validator := service.NewRegistrationValidator(nil, loc, nil)
	registrations := service.NewRegistrationService(repo, validator, backend.Notifier, metricsSvc, logr, service.RegistrationConfig{
		SubmitDelay: cfg.Registration.SubmitDelay,
	})
	exporter := service.NewExportService(service.ExportConfig{Location: loc}, logr, nil, nil)
	gate := service.NewAccessGate(service.GateConfig{
		Password:      cfg.Gate.Password,
		PasswordHash:  cfg.Gate.PasswordHash,
		SessionSecret: cfg.Gate.SessionSecret,
		SessionTTL:    cfg.Gate.SessionTTL,
		Delay:         cfg.Gate.Delay,
	}, metricsSvc, logr)

	hub := realtime.NewHub(logr)
	feed := service.NewDashboardFeed(registrations, hub, backend.Notifier, metricsSvc, logr, service.FeedConfig{
		PollInterval: cfg.Dashboard.PollInterval,
	})
	hub.SetRefreshHandler(feed.ForceRefresh)

	checks := make(map[string]handler.ReadinessCheck)
	for name, check := range backend.Checks() {
		checks[name] = handler.ReadinessCheck(check)
	}

	registrationHandler := handler.NewRegistrationHandler(registrations, exporter)
	sessionHandler := handler.NewSessionHandler(gate, handler.CookieConfig{Path: "/", Secure: cfg.Gate.CookieSecure})
	feedHandler := handler.NewFeedHandler(hub, realtime.NewUpgrader(cfg.CORS.AllowedOrigins), logr)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/registrations", registrationHandler.Create)
		api.GET("/registrations/options", registrationHandler.Options)

		api.POST("/hr/session", sessionHandler.Login)
		api.GET("/hr/session", middleware.LoadHRSession(gate), sessionHandler.Status)
		api.DELETE("/hr/session", sessionHandler.Logout)

		hr := api.Group("")
		hr.Use(middleware.RequireHRSession(gate))
		{
			hr.GET("/registrations", registrationHandler.List)
			hr.GET("/registrations/stats", registrationHandler.Stats)
			hr.GET("/registrations/export", registrationHandler.Export)
			hr.GET("/registrations/:id", registrationHandler.Get)
			hr.PATCH("/registrations/:id/status", registrationHandler.UpdateStatus)
			hr.GET("/hr/feed", feedHandler.Stream)
			hr.GET("/metrics/system", metricsHandler.System)
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	feedCtx, cancelFeed := context.WithCancel(ctx)
	feedDone := make(chan struct{})
	go func() {
		defer close(feedDone)
		if err := feed.Run(feedCtx); err != nil {
			logr.Error("dashboard feed stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown requested")

	cancelFeed()
	<-feedDone
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown", zap.Error(err))
	}
	logr.Info("server stopped")
}
