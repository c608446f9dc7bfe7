package entrants

import (
	"entrantly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEntrantRoutes configures all waiting-list routes
func SetupEntrantRoutes(rg *gin.RouterGroup, controller *Controller) {
	waitlist := rg.Group("/events/:event_id/waitlist")
	{
		// Entrant self-service
		entrant := waitlist.Group("")
		entrant.Use(middleware.DeviceAuth())
		{
			entrant.POST("", controller.JoinWaitlist)
			entrant.DELETE("", controller.LeaveWaitlist)
			entrant.POST("/accept", controller.AcceptInvitation)
			entrant.POST("/decline", controller.DeclineInvitation)
			entrant.GET("/me", controller.GetMyStatus)
		}

		// Organizer views and actions
		organizer := waitlist.Group("")
		organizer.Use(middleware.DeviceAuth(), middleware.RequireOrganizer())
		{
			organizer.GET("/entrants", controller.ListEntrants)
			organizer.GET("/counts", controller.GetCohortCounts)
			organizer.POST("/cancel", controller.CancelWaitingCohort)
		}
	}
}
