package models

import (
	"time"
)

// IncidentStatus - состояние инцидента в жизненном цикле
type IncidentStatus string

const (
	StatusPending   IncidentStatus = "pendiente"
	StatusScheduled IncidentStatus = "programada"
	StatusAssigned  IncidentStatus = "asignada"
	StatusCancelled IncidentStatus = "cancelada"

	// StatusOpen встречается в старых документах и ведет себя как StatusPending
	StatusOpen IncidentStatus = "abierta"
)

// Valid сообщает, является ли значение известным состоянием
func (s IncidentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusAssigned, StatusCancelled, StatusOpen:
		return true
	}
	return false
}

// IsTerminal сообщает, запрещены ли дальнейшие переходы
func (s IncidentStatus) IsTerminal() bool {
	return s == StatusCancelled
}

// IsPending учитывает устаревший синоним "abierta"
func (s IncidentStatus) IsPending() bool {
	return s == StatusPending || s == StatusOpen
}

// Priority - приоритет инцидента
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

// Rank возвращает вес приоритета для сортировки очереди
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// DefaultEstimatedHours используется, когда длительность не задана
const DefaultEstimatedHours = 1.0

type Incident struct {
	ID             string         `json:"id"`
	Title          string         `json:"titulo"`
	Description    string         `json:"descripcion"`
	SiteID         string         `json:"sedeId"`
	TechnicianID   *string        `json:"tecnicoId"`
	Status         IncidentStatus `json:"estado"`
	Priority       Priority       `json:"prioridad"`
	StartAt        *time.Time     `json:"fechaInicio"`
	EstimatedHours float64        `json:"duracionEstimadaHoras"`
	// LegacyHours - поле длительности из документов до миграции, только для чтения
	LegacyHours float64   `json:"duracionHoras,omitempty"`
	Deadline    *Date     `json:"fechaLimite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone возвращает глубокую копию инцидента
func (i *Incident) Clone() *Incident {
	if i == nil {
		return nil
	}
	c := *i
	if i.TechnicianID != nil {
		id := *i.TechnicianID
		c.TechnicianID = &id
	}
	if i.StartAt != nil {
		start := *i.StartAt
		c.StartAt = &start
	}
	if i.Deadline != nil {
		d := *i.Deadline
		c.Deadline = &d
	}
	return &c
}

// Duration возвращает продолжительность работ с учетом старого поля и значения по умолчанию
func (i *Incident) Duration() time.Duration {
	hours := i.EstimatedHours
	if hours <= 0 {
		hours = i.LegacyHours
	}
	if hours <= 0 {
		hours = DefaultEstimatedHours
	}
	return time.Duration(hours * float64(time.Hour))
}

// Technician возвращает идентификатор назначенного техника или пустую строку
func (i *Incident) Technician() string {
	if i.TechnicianID == nil {
		return ""
	}
	return *i.TechnicianID
}

// CreateIncidentInput - поля, которые клиент может задать при создании
type CreateIncidentInput struct {
	Title          string
	Description    string
	SiteID         string
	Priority       Priority
	EstimatedHours float64
	Deadline       *Date
}

// AssignInput - явный набор изменяемых полей для назначения
type AssignInput struct {
	TechnicianID string
	StartAt      time.Time
}

// ScheduleInput - явный набор изменяемых полей для планирования
type ScheduleInput struct {
	StartAt time.Time
}

// IncidentFilter - фильтр для списка инцидентов
type IncidentFilter struct {
	SiteID string
	Status IncidentStatus
}

// Match сообщает, проходит ли инцидент фильтр
func (f IncidentFilter) Match(inc *Incident) bool {
	if f.SiteID != "" && inc.SiteID != f.SiteID {
		return false
	}
	if f.Status != "" && inc.Status != f.Status {
		return false
	}
	return true
}

// AutoAssignResult - итог пакетного автоназначения
type AutoAssignResult struct {
	Assigned   []*Incident `json:"asignadas"`
	Unassigned []*Incident `json:"noAsignadas"`
}
