package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/field_dispatch_system/internal/models"
)

const (
	webhookQueueKey = "dispatch:webhook_events"
)

// EventType - тип события жизненного цикла инцидента
type EventType string

const (
	EventIncidentCreated    EventType = "incidencia.creada"
	EventIncidentScheduled  EventType = "incidencia.programada"
	EventIncidentAssigned   EventType = "incidencia.asignada"
	EventIncidentUnassigned EventType = "incidencia.desasignada"
	EventIncidentCancelled  EventType = "incidencia.cancelada"
	EventAutoAssigned       EventType = "autoasignacion.completada"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	Type      EventType          `json:"type"`
	SiteID    string             `json:"sedeId,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Incidents []*models.Incident `json:"incidencias"`
	// Unassigned заполняется только для EventAutoAssigned
	Unassigned []*models.Incident `json:"noAsignadas,omitempty"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH в голову списка, воркер забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// NopPublisher отбрасывает события; используется, когда Redis не настроен
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, WebhookEvent) error {
	return nil
}
