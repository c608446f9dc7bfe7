package lottery

import (
	"entrantly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupLotteryRoutes configures lottery routes
func SetupLotteryRoutes(rg *gin.RouterGroup, controller *Controller) {
	lottery := rg.Group("/events/:event_id/lottery")
	lottery.Use(middleware.DeviceAuth(), middleware.RequireOrganizer())
	{
		lottery.POST("/run", controller.RunLottery)
	}
}
