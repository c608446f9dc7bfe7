package organizers

import (
	"entrantly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrganizerRoutes configures organizer moderation routes
func SetupOrganizerRoutes(rg *gin.RouterGroup, controller *Controller) {
	admin := rg.Group("/admin/organizers")
	admin.Use(middleware.DeviceAuth(), middleware.RequireAdmin())
	{
		admin.GET("/banned", controller.ListBanned)
		admin.GET("/:organizer_id", controller.GetOrganizer)
		admin.POST("/:organizer_id/ban", controller.BanOrganizer)
		admin.POST("/:organizer_id/unban", controller.UnbanOrganizer)
	}
}
