package v1

import (
	"time"
)

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Title          string  `json:"titulo" validate:"required,max=255"`
	Description    string  `json:"descripcion,omitempty"`
	SiteID         string  `json:"sedeId" validate:"required"`
	Priority       string  `json:"prioridad,omitempty" validate:"omitempty,oneof=alta media baja"`
	EstimatedHours float64 `json:"duracionEstimadaHoras,omitempty" validate:"omitempty,gt=0,lte=8760"`
	Deadline       string  `json:"fechaLimite,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// InternalCreateIncidentRequest DTO внутреннего API: площадка задается по имени
// @Description DTO внутреннего API для создания инцидента по имени площадки
type InternalCreateIncidentRequest struct {
	SiteName       string  `json:"sedeNombre" validate:"required"`
	Title          string  `json:"titulo,omitempty" validate:"max=255"`
	Description    string  `json:"descripcion,omitempty"`
	Priority       string  `json:"prioridad,omitempty" validate:"omitempty,oneof=alta media baja"`
	EstimatedHours float64 `json:"duracionEstimadaHoras,omitempty" validate:"omitempty,gt=0,lte=8760"`
}

// AssignIncidentRequest DTO для ручного назначения
// @Description Время принимается в RFC3339 или как местное "2006-01-02T15:04"
type AssignIncidentRequest struct {
	TechnicianID string `json:"tecnicoId" validate:"required"`
	StartAt      string `json:"fechaInicio" validate:"required"`
}

// ScheduleIncidentRequest DTO для планирования
// @Description Время принимается в RFC3339 или как местное "2006-01-02T15:04"
type ScheduleIncidentRequest struct {
	StartAt string `json:"fechaInicio" validate:"required"`
}

// AutoAssignRequest DTO для автоназначения
// @Description Площадка и день в формате "2006-01-02"
type AutoAssignRequest struct {
	SiteID string `json:"sedeId" validate:"required"`
	Day    string `json:"fecha" validate:"required"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"titulo"`
	Description    string     `json:"descripcion"`
	SiteID         string     `json:"sedeId"`
	TechnicianID   *string    `json:"tecnicoId"`
	Status         string     `json:"estado"`
	Priority       string     `json:"prioridad"`
	StartAt        *time.Time `json:"fechaInicio"`
	EstimatedHours float64    `json:"duracionEstimadaHoras"`
	Deadline       *string    `json:"fechaLimite"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// AutoAssignResponse DTO для результата автоназначения
// @Description Назначенные и оставшиеся без назначения инциденты
type AutoAssignResponse struct {
	Assigned   []*IncidentResponse `json:"asignadas"`
	Unassigned []*IncidentResponse `json:"noAsignadas"`
}

// CalendarEventResponse DTO события календаря
// @Description Интервал занятости техника
type CalendarEventResponse struct {
	IncidentID   string    `json:"incidenciaId"`
	Title        string    `json:"titulo"`
	SiteID       string    `json:"sedeId"`
	TechnicianID string    `json:"tecnicoId"`
	From         time.Time `json:"desde"`
	To           time.Time `json:"hasta"`
}

// TechnicianResponse DTO техника
// @Description Техник площадки
type TechnicianResponse struct {
	ID     string `json:"id"`
	Name   string `json:"nombre"`
	SiteID string `json:"sedeId"`
	Active bool   `json:"activo"`
}

// ErrorResponse DTO ошибки
// @Description Текст ошибки
type ErrorResponse struct {
	Error string `json:"error"`
}
