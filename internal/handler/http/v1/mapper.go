package v1

import (
	"fmt"

	"github.com/shenikar/field_dispatch_system/internal/models"
)

// CreateRequestToInput преобразует DTO создания во входные данные сервиса
func CreateRequestToInput(dto CreateIncidentRequest) (models.CreateIncidentInput, error) {
	input := models.CreateIncidentInput{
		Title:          dto.Title,
		Description:    dto.Description,
		SiteID:         dto.SiteID,
		Priority:       models.Priority(dto.Priority),
		EstimatedHours: dto.EstimatedHours,
	}
	if dto.Deadline != "" {
		day, err := models.ParseDay(dto.Deadline)
		if err != nil {
			return models.CreateIncidentInput{}, err
		}
		d := models.NewDate(day)
		input.Deadline = &d
	}
	return input, nil
}

// InternalRequestToInput преобразует DTO внутреннего API; площадка подставляется сервисом
func InternalRequestToInput(dto InternalCreateIncidentRequest) models.CreateIncidentInput {
	return models.CreateIncidentInput{
		Title:          dto.Title,
		Description:    dto.Description,
		Priority:       models.Priority(dto.Priority),
		EstimatedHours: dto.EstimatedHours,
	}
}

func AssignRequestToInput(dto AssignIncidentRequest) (models.AssignInput, error) {
	start, err := models.ParseLocalTime(dto.StartAt)
	if err != nil {
		return models.AssignInput{}, fmt.Errorf("fechaInicio: %w", err)
	}
	return models.AssignInput{TechnicianID: dto.TechnicianID, StartAt: start}, nil
}

func ScheduleRequestToInput(dto ScheduleIncidentRequest) (models.ScheduleInput, error) {
	start, err := models.ParseLocalTime(dto.StartAt)
	if err != nil {
		return models.ScheduleInput{}, fmt.Errorf("fechaInicio: %w", err)
	}
	return models.ScheduleInput{StartAt: start}, nil
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	resp := &IncidentResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		SiteID:         model.SiteID,
		TechnicianID:   model.TechnicianID,
		Status:         string(model.Status),
		Priority:       string(model.Priority),
		StartAt:        model.StartAt,
		EstimatedHours: model.Duration().Hours(),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.Deadline != nil {
		d := model.Deadline.String()
		resp.Deadline = &d
	}
	return resp
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ResultToAutoAssignResponse(result *models.AutoAssignResult) *AutoAssignResponse {
	return &AutoAssignResponse{
		Assigned:   ModelsToIncidentResponses(result.Assigned),
		Unassigned: ModelsToIncidentResponses(result.Unassigned),
	}
}

func EventsToResponses(events []models.CalendarEvent) []CalendarEventResponse {
	responses := make([]CalendarEventResponse, len(events))
	for i, ev := range events {
		responses[i] = CalendarEventResponse{
			IncidentID:   ev.IncidentID,
			Title:        ev.Title,
			SiteID:       ev.SiteID,
			TechnicianID: ev.TechnicianID,
			From:         ev.From,
			To:           ev.To,
		}
	}
	return responses
}

func TechniciansToResponses(technicians []*models.Technician) []TechnicianResponse {
	responses := make([]TechnicianResponse, len(technicians))
	for i, t := range technicians {
		responses[i] = TechnicianResponse{ID: t.ID, Name: t.Name, SiteID: t.SiteID, Active: t.Active}
	}
	return responses
}
