package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/internal/repository"
	"github.com/shenikar/field_dispatch_system/internal/service"
	"github.com/shenikar/field_dispatch_system/internal/webhook"
	redisclient "github.com/shenikar/field_dispatch_system/pkg/redis"
	"github.com/sirupsen/logrus"
)

// App - собранные зависимости процесса
type App struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Storage *Storage
	Service service.IncidentService
	// Worker равен nil, если Redis не настроен
	Worker *webhook.WebhookWorker

	redis *redis.Client
}

// Build открывает хранилище, Redis (если задан) и собирает сервис инцидентов
func Build(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	storage, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  log,
		Storage: storage,
	}

	var (
		cache     service.IncidentCache    = service.NopCache{}
		publisher webhook.WebhookPublisher = webhook.NopPublisher{}
	)
	if cfg.RedisAddr != "" {
		redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("Successfully connected to Redis")
		a.redis = redisClient
		cache = repository.NewIncidentCache(redisClient, cfg.CacheTTL)
		publisher = webhook.NewRedisWebhookPublisher(redisClient)
		a.Worker = webhook.NewWebhookWorker(redisClient, log, cfg)
	} else {
		log.Info("REDIS_ADDR is empty, cache and webhooks are disabled")
	}

	a.Service = service.NewIncidentService(storage.Incidents, storage.Directory, cache, publisher, log, cfg)
	return a, nil
}

// Close освобождает соединения в обратном порядке
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	a.Storage.Close()
}
