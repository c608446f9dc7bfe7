package organizers

import (
	"net/http"

	"entrantly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) BanOrganizer(ctx *gin.Context) {
	organizerID := ctx.Param("organizer_id")
	if organizerID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid organizer ID", nil, nil)
		return
	}

	resp, err := c.service.Ban(ctx.Request.Context(), organizerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Organizer banned", resp, nil)
}

func (c *Controller) UnbanOrganizer(ctx *gin.Context) {
	organizerID := ctx.Param("organizer_id")
	if organizerID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid organizer ID", nil, nil)
		return
	}

	resp, err := c.service.Unban(ctx.Request.Context(), organizerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Organizer unbanned", resp, nil)
}

func (c *Controller) GetOrganizer(ctx *gin.Context) {
	organizerID := ctx.Param("organizer_id")
	if organizerID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid organizer ID", nil, nil)
		return
	}

	resp, err := c.service.GetOrganizer(ctx.Request.Context(), organizerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Organizer", resp, nil)
}

func (c *Controller) ListBanned(ctx *gin.Context) {
	resp, err := c.service.ListBanned(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Banned organizers", resp, nil)
}
