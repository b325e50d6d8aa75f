// Package scheduler реализует автоназначение инцидентов техникам на заданный день.
//
// Очередь упорядочена по приоритету (alta, media, baja), затем по времени создания.
// Техники площадки перебираются по кругу, курсор ротации ведется отдельно для каждой
// площадки и сдвигается только после успешного назначения. Для каждого кандидата
// ищется самый ранний свободный слот внутри рабочего дня с учетом уже занятых интервалов.
package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/shenikar/field_dispatch_system/internal/calendar"
	"github.com/shenikar/field_dispatch_system/internal/models"
)

// Workday - рабочее окно дня в часах местного времени
type Workday struct {
	StartHour int
	EndHour   int
}

// DefaultWorkday - 08:00-18:00
func DefaultWorkday() Workday {
	return Workday{StartHour: 8, EndHour: 18}
}

// Bounds возвращает начало и конец рабочего окна для дня
func (w Workday) Bounds(day time.Time) (time.Time, time.Time) {
	midnight := models.StartOfDay(day)
	return midnight.Add(time.Duration(w.StartHour) * time.Hour), midnight.Add(time.Duration(w.EndHour) * time.Hour)
}

// Assigner применяет переход в asignada. Реализуется lifecycle.Lifecycle.
type Assigner interface {
	Assign(inc *models.Incident, technicianID string, start time.Time) (*models.Incident, error)
}

// Request - входные данные одного прогона
type Request struct {
	SiteID string
	Day    time.Time
	// Incidents - вся коллекция: из нее выбираются кандидаты и строится занятость
	Incidents []*models.Incident
	// Technicians - активные техники площадки
	Technicians []*models.Technician
}

type Scheduler struct {
	workday  Workday
	assigner Assigner
}

func New(workday Workday, assigner Assigner) *Scheduler {
	return &Scheduler{workday: workday, assigner: assigner}
}

// Plan распределяет подходящие инциденты. Назначенные инциденты возвращаются
// уже в новом состоянии, неназначенные - без изменений. Невозможность
// назначить инцидент ошибкой не считается.
func (s *Scheduler) Plan(req Request) (*models.AutoAssignResult, error) {
	dayStart := models.StartOfDay(req.Day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	workStart, workEnd := s.workday.Bounds(dayStart)

	queue := Eligible(req.Incidents, req.SiteID, dayStart, dayEnd)
	SortQueue(queue)

	pools := technicianPools(req.Technicians)
	var all []*models.Technician
	for _, pool := range pools {
		all = append(all, pool...)
	}
	busy := buildAvailability(all, calendar.Project(req.Incidents), dayStart, dayEnd)
	cursors := make(map[string]int, len(pools))

	result := &models.AutoAssignResult{
		Assigned:   make([]*models.Incident, 0),
		Unassigned: make([]*models.Incident, 0),
	}

	for _, inc := range queue {
		duration := inc.Duration()
		earliest := workStart
		if inc.Status == models.StatusScheduled && inc.StartAt != nil && inc.StartAt.After(earliest) {
			earliest = *inc.StartAt
		}

		pool := pools[inc.SiteID]
		assigned := false
		for i := 0; i < len(pool); i++ {
			idx := (cursors[inc.SiteID] + i) % len(pool)
			tech := pool[idx]

			start := busy.earliestStart(tech.ID, earliest, duration)
			end := start.Add(duration)
			if end.After(workEnd) {
				continue
			}

			updated, err := s.assigner.Assign(inc, tech.ID, start)
			if err != nil {
				return nil, fmt.Errorf("scheduler: assign incident %s to %s: %w", inc.ID, tech.ID, err)
			}
			busy.book(tech.ID, start, end)
			cursors[inc.SiteID] = (idx + 1) % len(pool)
			result.Assigned = append(result.Assigned, updated)
			assigned = true
			break
		}
		if !assigned {
			result.Unassigned = append(result.Unassigned, inc)
		}
	}
	return result, nil
}

// Eligible выбирает инциденты площадки, которые можно назначить на день:
// pendiente без даты, либо programada без техника с fechaInicio внутри [dayStart, dayEnd).
func Eligible(incidents []*models.Incident, siteID string, dayStart, dayEnd time.Time) []*models.Incident {
	out := make([]*models.Incident, 0)
	for _, inc := range incidents {
		if inc.SiteID != siteID {
			continue
		}
		switch inc.Status {
		case models.StatusPending:
			out = append(out, inc)
		case models.StatusScheduled:
			if inc.TechnicianID != nil || inc.StartAt == nil {
				continue
			}
			if inc.StartAt.Before(dayStart) || !inc.StartAt.Before(dayEnd) {
				continue
			}
			out = append(out, inc)
		}
	}
	return out
}

// SortQueue упорядочивает по приоритету по убыванию, затем по createdAt и id
func SortQueue(queue []*models.Incident) {
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
			return ra > rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// technicianPools группирует активных техников по площадкам, сохраняя порядок справочника
func technicianPools(technicians []*models.Technician) map[string][]*models.Technician {
	pools := make(map[string][]*models.Technician)
	for _, t := range technicians {
		if !t.Active {
			continue
		}
		pools[t.SiteID] = append(pools[t.SiteID], t)
	}
	return pools
}
