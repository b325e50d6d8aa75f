package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/calendar"
	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/internal/lifecycle"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/scheduler"
	"github.com/shenikar/field_dispatch_system/internal/webhook"
	"github.com/sirupsen/logrus"
)

const (
	internalDefaultTitle    = "Incidencia (API Interna)"
	internalDefaultPriority = models.PriorityLow
)

// IncidentService определяет контракт бизнес-логики диспетчеризации инцидентов
type IncidentService interface {
	CreateIncident(ctx context.Context, input models.CreateIncidentInput) (*models.Incident, error)
	// CreateIncidentForSiteName создает инцидент по имени площадки (внутренний API)
	CreateIncidentForSiteName(ctx context.Context, siteName string, input models.CreateIncidentInput) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	AssignIncident(ctx context.Context, id string, input models.AssignInput) (*models.Incident, error)
	ScheduleIncident(ctx context.Context, id string, input models.ScheduleInput) (*models.Incident, error)
	UnassignIncident(ctx context.Context, id string) (*models.Incident, error)
	CancelIncident(ctx context.Context, id string) (*models.Incident, error)
	AutoAssign(ctx context.Context, siteID string, day time.Time) (*models.AutoAssignResult, error)
	Calendar(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error)
	ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error)
	ListSites(ctx context.Context) ([]*models.Site, error)
}

type incidentService struct {
	repo      IncidentRepository
	directory Directory
	cache     IncidentCache
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger

	lifecycle *lifecycle.Lifecycle
	scheduler *scheduler.Scheduler

	// mu сериализует все циклы загрузка-изменение-сохранение коллекции инцидентов
	mu sync.Mutex
}

func NewIncidentService(
	repo IncidentRepository,
	directory Directory,
	cache IncidentCache,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) IncidentService {
	return newIncidentService(repo, directory, cache, publisher, logger, cfg, time.Now)
}

func newIncidentService(
	repo IncidentRepository,
	directory Directory,
	cache IncidentCache,
	publisher webhook.WebhookPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
	now func() time.Time,
) *incidentService {
	if cache == nil {
		cache = NopCache{}
	}
	if publisher == nil {
		publisher = webhook.NopPublisher{}
	}
	lc := lifecycle.New(now)
	workday := scheduler.Workday{StartHour: cfg.WorkdayStartHour, EndHour: cfg.WorkdayEndHour}
	return &incidentService{
		repo:      repo,
		directory: directory,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		lifecycle: lc,
		scheduler: scheduler.New(workday, lc),
	}
}

// CreateIncident создает инцидент в состоянии pendiente
func (s *incidentService) CreateIncident(ctx context.Context, input models.CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"site_id": input.SiteID,
	})
	log.Info("Attempting to create a new incident")

	incident, err := s.lifecycle.Create(input)
	if err != nil {
		log.WithError(err).Warn("Invalid incident input")
		return nil, fmt.Errorf("service: invalid incident: %w", err)
	}
	if _, err := s.directory.GetSite(ctx, incident.SiteID); err != nil {
		log.WithError(err).Warn("Site lookup failed")
		return nil, fmt.Errorf("service: could not resolve site: %w", err)
	}

	s.mu.Lock()
	err = s.repo.Create(ctx, incident)
	s.mu.Unlock()
	if err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	s.publish(ctx, log, webhook.WebhookEvent{
		Type:      webhook.EventIncidentCreated,
		SiteID:    incident.SiteID,
		Incidents: []*models.Incident{incident},
	})
	return incident, nil
}

// CreateIncidentForSiteName находит площадку по имени без учета регистра и создает инцидент
func (s *incidentService) CreateIncidentForSiteName(ctx context.Context, siteName string, input models.CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "CreateIncidentForSiteName",
		"site_name": siteName,
	})

	if strings.TrimSpace(siteName) == "" {
		return nil, fmt.Errorf("service: %w: sedeNombre is required", models.ErrValidation)
	}
	site, err := s.directory.FindSiteByName(ctx, siteName)
	if err != nil {
		log.WithError(err).Warn("Site not found by name")
		return nil, fmt.Errorf("service: could not resolve site by name: %w", err)
	}

	input.SiteID = site.ID
	if strings.TrimSpace(input.Title) == "" {
		input.Title = internalDefaultTitle
	}
	if input.Priority == "" {
		input.Priority = internalDefaultPriority
	}
	return s.CreateIncident(ctx, input)
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Debug("Fetching incident by ID")

	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	// чтение и запись в кеш под тем же мьютексом, что и переходы
	s.mu.Lock()
	defer s.mu.Unlock()

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: not get incident: %w", err)
	}
	if err := s.cache.Set(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to store incident in cache")
	}
	return incident, nil
}

// ListIncidents возвращает инциденты, подходящие под фильтр, в порядке хранилища
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
		"site_id": filter.SiteID,
		"status":  filter.Status,
	})

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: %w: unknown estado %q", models.ErrValidation, filter.Status)
	}

	all, err := s.repo.LoadAll(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	incidents := make([]*models.Incident, 0, len(all))
	for _, inc := range all {
		if filter.Match(inc) {
			incidents = append(incidents, inc)
		}
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// AssignIncident назначает техника и время начала вручную
func (s *incidentService) AssignIncident(ctx context.Context, id string, input models.AssignInput) (*models.Incident, error) {
	if input.TechnicianID != "" {
		if _, err := s.directory.GetTechnician(ctx, input.TechnicianID); err != nil {
			return nil, fmt.Errorf("service: could not resolve technician: %w", err)
		}
	}
	return s.transition(ctx, "AssignIncident", id, webhook.EventIncidentAssigned, func(inc *models.Incident) (*models.Incident, error) {
		return s.lifecycle.Assign(inc, input.TechnicianID, input.StartAt)
	})
}

// ScheduleIncident фиксирует желаемое время начала без техника
func (s *incidentService) ScheduleIncident(ctx context.Context, id string, input models.ScheduleInput) (*models.Incident, error) {
	return s.transition(ctx, "ScheduleIncident", id, webhook.EventIncidentScheduled, func(inc *models.Incident) (*models.Incident, error) {
		return s.lifecycle.Schedule(inc, input.StartAt)
	})
}

// UnassignIncident снимает назначение
func (s *incidentService) UnassignIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.transition(ctx, "UnassignIncident", id, webhook.EventIncidentUnassigned, s.lifecycle.Unassign)
}

// CancelIncident отменяет инцидент, физически он не удаляется
func (s *incidentService) CancelIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.transition(ctx, "CancelIncident", id, webhook.EventIncidentCancelled, s.lifecycle.Cancel)
}

// transition выполняет загрузку, переход и сохранение под мьютексом
func (s *incidentService) transition(
	ctx context.Context,
	method, id string,
	eventType webhook.EventType,
	apply func(*models.Incident) (*models.Incident, error),
) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      method,
		"incident_id": id,
	})
	log.Info("Attempting incident transition")

	s.mu.Lock()
	updated, err := func() (*models.Incident, error) {
		defer s.mu.Unlock()

		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Attempted to change a non-existent incident")
			return nil, fmt.Errorf("service: could not load incident: %w", err)
		}
		next, err := apply(current)
		if err != nil {
			log.WithError(err).WithField("status", current.Status).Warn("Transition rejected")
			return nil, fmt.Errorf("service: transition rejected: %w", err)
		}
		if err := s.repo.Save(ctx, next); err != nil {
			log.WithError(err).Error("Failed to save incident in repository")
			return nil, fmt.Errorf("service: could not save incident: %w", err)
		}
		return next, nil
	}()
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, log, updated.ID)
	log.WithField("status", updated.Status).Info("Incident updated successfully")
	s.publish(ctx, log, webhook.WebhookEvent{
		Type:      eventType,
		SiteID:    updated.SiteID,
		Incidents: []*models.Incident{updated},
	})
	return updated, nil
}

// AutoAssign распределяет подходящие инциденты площадки на день
func (s *incidentService) AutoAssign(ctx context.Context, siteID string, day time.Time) (*models.AutoAssignResult, error) {
	siteID = strings.TrimSpace(siteID)
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "AutoAssign",
		"site_id": siteID,
	})

	if siteID == "" {
		return nil, fmt.Errorf("service: %w: sedeId is required", models.ErrInvalidAutoAssignRequest)
	}
	if day.IsZero() {
		return nil, fmt.Errorf("service: %w: fecha is required", models.ErrInvalidAutoAssignRequest)
	}
	log = log.WithField("day", day.Format("2006-01-02"))
	log.Info("Starting auto-assignment")

	if _, err := s.directory.GetSite(ctx, siteID); err != nil {
		log.WithError(err).Warn("Site lookup failed")
		return nil, fmt.Errorf("service: could not resolve site: %w", err)
	}
	technicians, err := s.directory.ListTechnicians(ctx, siteID)
	if err != nil {
		log.WithError(err).Error("Failed to list technicians")
		return nil, fmt.Errorf("service: could not list technicians: %w", err)
	}

	s.mu.Lock()
	result, err := func() (*models.AutoAssignResult, error) {
		defer s.mu.Unlock()

		incidents, err := s.repo.LoadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("service: could not load incidents: %w", err)
		}
		result, err := s.scheduler.Plan(scheduler.Request{
			SiteID:      siteID,
			Day:         day,
			Incidents:   incidents,
			Technicians: technicians,
		})
		if err != nil {
			return nil, fmt.Errorf("service: auto-assign failed: %w", err)
		}
		if len(result.Assigned) == 0 {
			return result, nil
		}
		if err := s.repo.SaveAll(ctx, result.Assigned); err != nil {
			return nil, fmt.Errorf("service: could not save assignments: %w", err)
		}
		return result, nil
	}()
	if err != nil {
		log.WithError(err).Error("Auto-assignment failed")
		return nil, err
	}

	ids := make([]string, 0, len(result.Assigned))
	for _, inc := range result.Assigned {
		ids = append(ids, inc.ID)
	}
	s.invalidate(ctx, log, ids...)

	log.WithFields(logrus.Fields{
		"assigned":   len(result.Assigned),
		"unassigned": len(result.Unassigned),
	}).Info("Auto-assignment completed")
	s.publish(ctx, log, webhook.WebhookEvent{
		Type:       webhook.EventAutoAssigned,
		SiteID:     siteID,
		Incidents:  result.Assigned,
		Unassigned: result.Unassigned,
	})
	return result, nil
}

// Calendar возвращает события назначенных инцидентов, отфильтрованные по площадке, технику и окну
func (s *incidentService) Calendar(ctx context.Context, filter models.CalendarFilter) ([]models.CalendarEvent, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("service: %w: hasta is before desde", models.ErrValidation)
	}
	incidents, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "incident",
			"method":  "Calendar",
		}).WithError(err).Error("Failed to load incidents")
		return nil, fmt.Errorf("service: could not load incidents: %w", err)
	}
	return calendar.Filter(calendar.Project(incidents), filter), nil
}

// ListTechnicians возвращает техников площадки или всех
func (s *incidentService) ListTechnicians(ctx context.Context, siteID string) ([]*models.Technician, error) {
	technicians, err := s.directory.ListTechnicians(ctx, strings.TrimSpace(siteID))
	if err != nil {
		return nil, fmt.Errorf("service: could not list technicians: %w", err)
	}
	return technicians, nil
}

func (s *incidentService) ListSites(ctx context.Context) ([]*models.Site, error) {
	sites, err := s.directory.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list sites: %w", err)
	}
	return sites, nil
}

// invalidate сбрасывает кеш; ошибка кеша не отменяет уже сохраненное изменение
func (s *incidentService) invalidate(ctx context.Context, log *logrus.Entry, ids ...string) {
	if len(ids) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
}

func (s *incidentService) publish(ctx context.Context, log *logrus.Entry, event webhook.WebhookEvent) {
	event.Timestamp = s.lifecycle.Now()
	if err := s.publisher.Publish(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish webhook event")
	}
}
