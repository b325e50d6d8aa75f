package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/shenikar/field_dispatch_system/internal/app"
	"github.com/shenikar/field_dispatch_system/internal/config"
	v1 "github.com/shenikar/field_dispatch_system/internal/handler/http/v1"
	"github.com/shenikar/field_dispatch_system/internal/jobs"
	"github.com/shenikar/field_dispatch_system/pkg/logger"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/field_dispatch_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 5 * time.Second

// @title Field Dispatch System API
// @version 1.0
// @description Incident intake, manual and automatic technician assignment, and technician calendars.
// @host localhost:8080
// @BasePath /
func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// Инициализация хэндлеров
	handler := v1.NewHandler(a.Service, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group(cfg.HTTPBasePath)
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("HTTP server started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Received shutdown signal, shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if a.Worker != nil {
		g.Go(func() error {
			return a.Worker.Run(gctx)
		})
	}

	if cfg.AutoAssignCron != "" {
		job := jobs.NewAutoAssignJob(a.Service, log)
		g.Go(func() error {
			return job.Run(gctx, cfg.AutoAssignCron)
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error")
		return
	}
	log.Info("Server gracefully stopped")
}
