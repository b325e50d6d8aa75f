package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/field_dispatch_system/internal/config"
	"github.com/shenikar/field_dispatch_system/internal/models"
	"github.com/shenikar/field_dispatch_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Create a new incident
// @Description Create a pending incident for a site.
// @Tags Incidencias
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Invalid request body or validation error"
// @Failure 404 {object} ErrorResponse "Site not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidencias [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if !h.bind(c, log, &input) {
		return
	}

	model, err := CreateRequestToInput(input)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	incident, err := h.incidentService.CreateIncident(c.Request.Context(), model)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary List incidents
// @Description List incidents, optionally filtered by site and state.
// @Tags Incidencias
// @Produce json
// @Param sedeId query string false "Site ID"
// @Param estado query string false "State" Enums(pendiente, programada, asignada, cancelada, abierta)
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} ErrorResponse "Unknown state"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidencias [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	filter := models.IncidentFilter{
		SiteID: strings.TrimSpace(c.Query("sedeId")),
		Status: models.IncidentStatus(strings.TrimSpace(c.Query("estado"))),
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Tags Incidencias
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidencias/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Assign an incident
// @Description Assign a technician and a start time. Allowed from any non-cancelled state.
// @Tags Incidencias
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param body body AssignIncidentRequest true "Technician and start"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Missing technician or start"
// @Failure 404 {object} ErrorResponse "Incident or technician not found"
// @Failure 409 {object} ErrorResponse "Incident is cancelled"
// @Router /incidencias/{id}/asignar [post]
func (h *Handler) assignIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "assignIncident").WithField("id", id)

	var input AssignIncidentRequest
	if !h.bind(c, log, &input) {
		return
	}
	model, err := AssignRequestToInput(input)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	incident, err := h.incidentService.AssignIncident(c.Request.Context(), id, model)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Schedule an incident
// @Description Record a requested start time without a technician. Only from pendiente.
// @Tags Incidencias
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Param body body ScheduleIncidentRequest true "Requested start"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Missing start"
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident is not pending"
// @Router /incidencias/{id}/programar [post]
func (h *Handler) scheduleIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "scheduleIncident").WithField("id", id)

	var input ScheduleIncidentRequest
	if !h.bind(c, log, &input) {
		return
	}
	model, err := ScheduleRequestToInput(input)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	incident, err := h.incidentService.ScheduleIncident(c.Request.Context(), id, model)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Unassign an incident
// @Description Clear technician and start; the incident returns to pendiente.
// @Tags Incidencias
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident is not assigned"
// @Router /incidencias/{id}/desasignar [post]
func (h *Handler) unassignIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "unassignIncident").WithField("id", id)

	incident, err := h.incidentService.UnassignIncident(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Cancel an incident
// @Description Move the incident to the terminal cancelada state.
// @Tags Incidencias
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} ErrorResponse "Incident not found"
// @Failure 409 {object} ErrorResponse "Incident already cancelled"
// @Router /incidencias/{id}/cancelar [post]
func (h *Handler) cancelIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "cancelIncident").WithField("id", id)

	incident, err := h.incidentService.CancelIncident(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Auto-assign incidents
// @Description Book pending and scheduled incidents of a site for one day.
// @Tags Incidencias
// @Accept json
// @Produce json
// @Param body body AutoAssignRequest true "Site and day"
// @Success 200 {object} AutoAssignResponse
// @Failure 400 {object} ErrorResponse "Missing site or day"
// @Failure 404 {object} ErrorResponse "Site not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /incidencias/auto-asignar [post]
func (h *Handler) autoAssign(c *gin.Context) {
	log := h.logger.WithField("method", "autoAssign")

	var input AutoAssignRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "sedeId y fecha son obligatorios"})
		return
	}
	day, err := models.ParseDay(input.Day)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	result, err := h.incidentService.AutoAssign(c.Request.Context(), input.SiteID, day)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ResultToAutoAssignResponse(result))
}

// @Summary Calendar events
// @Description Busy intervals of assigned incidents, filtered by site, technician and window.
// @Tags Calendario
// @Produce json
// @Param sedeId query string false "Site ID"
// @Param tecnicoId query string false "Technician ID"
// @Param desde query string false "Window start (date or timestamp)"
// @Param hasta query string false "Window end (date or timestamp)"
// @Success 200 {array} CalendarEventResponse
// @Failure 400 {object} ErrorResponse "Invalid window"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /calendario [get]
func (h *Handler) calendar(c *gin.Context) {
	log := h.logger.WithField("method", "calendar")

	filter := models.CalendarFilter{
		SiteID:       strings.TrimSpace(c.Query("sedeId")),
		TechnicianID: strings.TrimSpace(c.Query("tecnicoId")),
	}
	var err error
	if filter.From, err = parseBound(c.Query("desde")); err != nil {
		h.writeError(c, log, err)
		return
	}
	if filter.To, err = parseBound(c.Query("hasta")); err != nil {
		h.writeError(c, log, err)
		return
	}

	events, err := h.incidentService.Calendar(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, EventsToResponses(events))
}

// @Summary Create incident by site name
// @Description Internal API: resolves the site by name (case-insensitive).
// @Tags Interno
// @Accept json
// @Produce json
// @Param body body InternalCreateIncidentRequest true "Incident"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} ErrorResponse "Missing site name"
// @Failure 404 {object} ErrorResponse "Site not found"
// @Router /interno/incidencias [post]
func (h *Handler) internalCreateIncident(c *gin.Context) {
	log := h.logger.WithField("method", "internalCreateIncident")

	var input InternalCreateIncidentRequest
	if !h.bind(c, log, &input) {
		return
	}

	incident, err := h.incidentService.CreateIncidentForSiteName(c.Request.Context(), input.SiteName, InternalRequestToInput(input))
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary List technicians
// @Description Internal API: technicians of a site, or all of them.
// @Tags Interno
// @Produce json
// @Param sedeId query string false "Site ID"
// @Success 200 {array} TechnicianResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interno/tecnicos [get]
func (h *Handler) internalListTechnicians(c *gin.Context) {
	log := h.logger.WithField("method", "internalListTechnicians")

	technicians, err := h.incidentService.ListTechnicians(c.Request.Context(), c.Query("sedeId"))
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, TechniciansToResponses(technicians))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": h.cfg.StorageDriver})
}

// bind декодирует и валидирует тело запроса; при ошибке ответ уже записан
func (h *Handler) bind(c *gin.Context, log *logrus.Entry, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// writeError переводит ошибку сервиса в HTTP статус
func (h *Handler) writeError(c *gin.Context, log *logrus.Entry, err error) {
	status := statusFromError(err)
	entry := log.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	entry.Warn("Request rejected")
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidAutoAssignRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrIllegalTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseBound принимает дату "2006-01-02" или момент времени; пустая строка - без границы
func parseBound(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := models.ParseLocalTime(value); err == nil {
		return t, nil
	}
	return models.ParseDay(value)
}
