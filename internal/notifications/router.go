package notifications

import (
	"entrantly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes configures notification routes
func SetupNotificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Entrant-facing preference endpoints
	preferences := rg.Group("/notifications/preferences")
	preferences.Use(middleware.DeviceAuth())
	{
		preferences.GET("", controller.GetMyPreference)
		preferences.PUT("", controller.SetMyPreference)
	}

	// Organizer dispatch
	dispatch := rg.Group("/events/:event_id/notifications")
	dispatch.Use(middleware.DeviceAuth(), middleware.RequireOrganizer())
	{
		dispatch.POST("", controller.SendToCohort)
	}

	// Admin log browsing
	admin := rg.Group("/admin/events/:event_id/notifications")
	admin.Use(middleware.DeviceAuth(), middleware.RequireAdmin())
	{
		admin.GET("/log", controller.ListLog)
	}
}
