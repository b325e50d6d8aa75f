package models

import "time"

// CalendarEvent - вычисляемый интервал занятости техника, не сохраняется
type CalendarEvent struct {
	IncidentID   string    `json:"incidenciaId"`
	Title        string    `json:"titulo"`
	SiteID       string    `json:"sedeId"`
	TechnicianID string    `json:"tecnicoId"`
	From         time.Time `json:"desde"`
	To           time.Time `json:"hasta"`
}

// Overlaps сообщает, пересекается ли событие с полуинтервалом [from, to)
func (e CalendarEvent) Overlaps(from, to time.Time) bool {
	return e.From.Before(to) && e.To.After(from)
}

// CalendarFilter - фильтр проекции календаря
type CalendarFilter struct {
	SiteID       string
	TechnicianID string
	From         time.Time
	To           time.Time
}
