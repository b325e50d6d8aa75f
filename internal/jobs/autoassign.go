package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AutoAssigner - часть сервиса инцидентов, нужная фоновому автоназначению
type AutoAssigner interface {
	ListSites(ctx context.Context) ([]*models.Site, error)
	AutoAssign(ctx context.Context, siteID string, day time.Time) (*models.AutoAssignResult, error)
}

// AutoAssignJob по расписанию запускает автоназначение на текущий день для всех площадок
type AutoAssignJob struct {
	service AutoAssigner
	logger  *logrus.Logger
	now     func() time.Time
}

func NewAutoAssignJob(service AutoAssigner, logger *logrus.Logger) *AutoAssignJob {
	return &AutoAssignJob{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Run блокируется до отмены контекста; schedule - стандартное cron выражение из пяти полей
func (j *AutoAssignJob) Run(ctx context.Context, schedule string) error {
	log := j.logger.WithFields(logrus.Fields{
		"job":  "auto_assign",
		"cron": schedule,
	})

	cronLogger := cron.PrintfLogger(j.logger)
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := c.AddFunc(schedule, func() {
		if err := j.RunOnce(ctx); err != nil {
			log.WithError(err).Error("Scheduled auto-assignment finished with errors")
		}
	}); err != nil {
		return fmt.Errorf("invalid AUTO_ASSIGN_CRON %q: %w", schedule, err)
	}

	log.Info("Auto-assign job scheduled")
	c.Start()
	<-ctx.Done()

	// ждем завершения текущего запуска
	<-c.Stop().Done()
	log.Info("Auto-assign job stopped")
	return nil
}

// RunOnce выполняет автоназначение для каждой площадки; ошибка одной площадки не останавливает остальные
func (j *AutoAssignJob) RunOnce(ctx context.Context) error {
	log := j.logger.WithField("job", "auto_assign")

	sites, err := j.service.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("jobs: could not list sites: %w", err)
	}

	day := models.StartOfDay(j.now())
	var errs []error
	for _, site := range sites {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := j.service.AutoAssign(ctx, site.ID, day)
		if err != nil {
			log.WithError(err).WithField("site_id", site.ID).Warn("Auto-assignment failed for site")
			errs = append(errs, fmt.Errorf("site %s: %w", site.ID, err))
			continue
		}
		log.WithFields(logrus.Fields{
			"site_id":    site.ID,
			"assigned":   len(result.Assigned),
			"unassigned": len(result.Unassigned),
		}).Info("Auto-assignment run for site")
	}
	return errors.Join(errs...)
}
