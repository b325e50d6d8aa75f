// Package calendar строит события календаря из назначенных инцидентов.
package calendar

import (
	"github.com/shenikar/field_dispatch_system/internal/models"
)

// Project возвращает события для инцидентов в состоянии asignada с техником и временем начала.
// Порядок событий совпадает с порядком входных инцидентов.
func Project(incidents []*models.Incident) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(incidents))
	for _, inc := range incidents {
		event, ok := EventOf(inc)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events
}

// EventOf проецирует один инцидент; ok=false, если инцидент не занимает календарь
func EventOf(inc *models.Incident) (models.CalendarEvent, bool) {
	if inc == nil || inc.Status != models.StatusAssigned || inc.StartAt == nil || inc.Technician() == "" {
		return models.CalendarEvent{}, false
	}
	from := *inc.StartAt
	return models.CalendarEvent{
		IncidentID:   inc.ID,
		Title:        inc.Title,
		SiteID:       inc.SiteID,
		TechnicianID: inc.Technician(),
		From:         from,
		To:           from.Add(inc.Duration()),
	}, true
}

// Filter оставляет события, подходящие под фильтр. Нулевые границы окна не ограничивают.
func Filter(events []models.CalendarEvent, f models.CalendarFilter) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if f.SiteID != "" && ev.SiteID != f.SiteID {
			continue
		}
		if f.TechnicianID != "" && ev.TechnicianID != f.TechnicianID {
			continue
		}
		if !f.From.IsZero() && !ev.To.After(f.From) {
			continue
		}
		if !f.To.IsZero() && !ev.From.Before(f.To) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
