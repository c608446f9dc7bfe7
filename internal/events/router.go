package events

import (
	"entrantly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes following the same pattern as other modules
func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		// Read-only consumers (UI / QR / CSV layers)
		events.GET("", controller.ListEvents)
		events.GET("/:event_id", controller.GetEvent)

		// Organizer operations
		organizer := events.Group("")
		organizer.Use(middleware.DeviceAuth(), middleware.RequireOrganizer())
		{
			organizer.POST("", controller.CreateEvent)
			organizer.PATCH("/:event_id", controller.UpdateEvent)
			organizer.POST("/:event_id/reactivate", controller.ReactivateEvent)
			organizer.GET("/mine", controller.ListMyEvents)
		}
	}
}
