// Package lifecycle реализует конечный автомат состояний инцидента.
//
// Все переходы - чистые функции: принимают значение инцидента и возвращают
// новое значение либо ошибку. Исходный инцидент никогда не изменяется.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/field_dispatch_system/internal/models"
)

// Lifecycle применяет переходы и проставляет метки времени
type Lifecycle struct {
	now func() time.Time
}

// New создает автомат с заданными часами; nil означает time.Now
func New(now func() time.Time) *Lifecycle {
	if now == nil {
		now = time.Now
	}
	return &Lifecycle{now: now}
}

// Now возвращает текущее время по часам автомата
func (l *Lifecycle) Now() time.Time {
	return l.now()
}

// Create проверяет входные данные и строит новый инцидент в состоянии pendiente
func (l *Lifecycle) Create(input models.CreateIncidentInput) (*models.Incident, error) {
	title := strings.TrimSpace(input.Title)
	siteID := strings.TrimSpace(input.SiteID)
	if title == "" {
		return nil, fmt.Errorf("%w: titulo is required", models.ErrValidation)
	}
	if siteID == "" {
		return nil, fmt.Errorf("%w: sedeId is required", models.ErrValidation)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown prioridad %q", models.ErrValidation, priority)
	}

	hours := input.EstimatedHours
	if hours == 0 {
		hours = models.DefaultEstimatedHours
	}
	if hours < 0 {
		return nil, fmt.Errorf("%w: duracionEstimadaHoras must be positive", models.ErrValidation)
	}

	now := l.now()
	inc := &models.Incident{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    input.Description,
		SiteID:         siteID,
		Status:         models.StatusPending,
		Priority:       priority,
		EstimatedHours: hours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Deadline != nil {
		d := *input.Deadline
		inc.Deadline = &d
	}
	return inc, nil
}

// Assign назначает техника и время начала; допустим из любого нетерминального состояния
func (l *Lifecycle) Assign(inc *models.Incident, technicianID string, start time.Time) (*models.Incident, error) {
	if err := l.checkTransition(inc, models.StatusAssigned); err != nil {
		return nil, err
	}
	if strings.TrimSpace(technicianID) == "" {
		return nil, fmt.Errorf("%w: tecnicoId is required", models.ErrValidation)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: fechaInicio is required", models.ErrValidation)
	}

	next := inc.Clone()
	next.Status = models.StatusAssigned
	next.TechnicianID = &technicianID
	next.StartAt = &start
	next.UpdatedAt = l.now()
	return next, nil
}

// Schedule фиксирует желаемое время начала; допустим только из pendiente
func (l *Lifecycle) Schedule(inc *models.Incident, start time.Time) (*models.Incident, error) {
	if err := l.checkTransition(inc, models.StatusScheduled); err != nil {
		return nil, err
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: fechaInicio is required", models.ErrValidation)
	}

	next := inc.Clone()
	next.Status = models.StatusScheduled
	next.TechnicianID = nil
	next.StartAt = &start
	next.UpdatedAt = l.now()
	return next, nil
}

// Unassign снимает назначение и возвращает инцидент в pendiente
func (l *Lifecycle) Unassign(inc *models.Incident) (*models.Incident, error) {
	if err := l.checkTransition(inc, models.StatusPending); err != nil {
		return nil, err
	}

	next := inc.Clone()
	next.Status = models.StatusPending
	next.TechnicianID = nil
	next.StartAt = nil
	next.UpdatedAt = l.now()
	return next, nil
}

// Cancel переводит инцидент в терминальное состояние cancelada.
// Отмененный инцидент не держит техника и время, иначе он попадал бы в календарь.
func (l *Lifecycle) Cancel(inc *models.Incident) (*models.Incident, error) {
	if err := l.checkTransition(inc, models.StatusCancelled); err != nil {
		return nil, err
	}

	next := inc.Clone()
	next.Status = models.StatusCancelled
	next.TechnicianID = nil
	next.StartAt = nil
	next.UpdatedAt = l.now()
	return next, nil
}

func (l *Lifecycle) checkTransition(inc *models.Incident, to models.IncidentStatus) error {
	if inc == nil {
		return fmt.Errorf("%w: incident is nil", models.ErrValidation)
	}
	if !CanTransition(inc.Status, to) {
		return fmt.Errorf("%w: cannot move incident %s from %q to %q", models.ErrIllegalTransition, inc.ID, inc.Status, to)
	}
	return nil
}

// CanTransition - таблица допустимых переходов. Переход в pendiente означает снятие назначения.
func CanTransition(from, to models.IncidentStatus) bool {
	if from.IsTerminal() || !from.Valid() {
		return false
	}
	switch to {
	case models.StatusAssigned, models.StatusCancelled:
		return true
	case models.StatusScheduled:
		return from.IsPending()
	case models.StatusPending:
		return from == models.StatusAssigned
	default:
		return false
	}
}

// CheckInvariants проверяет согласованность полей с состоянием
func CheckInvariants(inc *models.Incident) error {
	hasTechnician := inc.TechnicianID != nil
	hasStart := inc.StartAt != nil

	switch inc.Status {
	case models.StatusAssigned:
		if !hasTechnician || !hasStart {
			return fmt.Errorf("incident %s is asignada without tecnicoId/fechaInicio", inc.ID)
		}
	case models.StatusScheduled:
		if hasTechnician || !hasStart {
			return fmt.Errorf("incident %s is programada with inconsistent fields", inc.ID)
		}
	case models.StatusPending, models.StatusOpen, models.StatusCancelled:
		if hasTechnician || hasStart {
			return fmt.Errorf("incident %s is %s with tecnicoId/fechaInicio set", inc.ID, inc.Status)
		}
	default:
		return fmt.Errorf("incident %s has unknown estado %q", inc.ID, inc.Status)
	}
	if inc.Duration() <= 0 {
		return fmt.Errorf("incident %s has non-positive duration", inc.ID)
	}
	return nil
}
