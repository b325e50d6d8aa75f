package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Инциденты и переходы жизненного цикла
	incidents := api.Group("/incidencias")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.POST("/auto-asignar", h.autoAssign)
		incidents.GET("/:id", h.getIncident)
		incidents.POST("/:id/asignar", h.assignIncident)
		incidents.POST("/:id/programar", h.scheduleIncident)
		incidents.POST("/:id/desasignar", h.unassignIncident)
		incidents.POST("/:id/cancelar", h.cancelIncident)
	}

	api.GET("/calendario", h.calendar)

	// Внутренний API для интеграций
	internal := api.Group("/interno")
	{
		internal.POST("/incidencias", h.internalCreateIncident)
		internal.GET("/tecnicos", h.internalListTechnicians)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
