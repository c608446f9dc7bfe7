package entrants

import (
	"net/http"

	"entrantly/internal/shared/middleware"
	"entrantly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) JoinWaitlist(ctx *gin.Context) {
	eventID, userID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	var request JoinWaitlistRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	resp, err := c.service.Join(ctx.Request.Context(), eventID, userID, &request)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Joined waiting list", resp, nil)
}

func (c *Controller) LeaveWaitlist(ctx *gin.Context) {
	eventID, userID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.Leave(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Left waiting list", resp, nil)
}

func (c *Controller) AcceptInvitation(ctx *gin.Context) {
	eventID, userID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.Accept(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Invitation accepted", resp, nil)
}

func (c *Controller) DeclineInvitation(ctx *gin.Context) {
	eventID, userID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.Decline(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Invitation declined", resp, nil)
}

func (c *Controller) GetMyStatus(ctx *gin.Context) {
	eventID, userID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.GetStatus(ctx.Request.Context(), eventID, userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Entrant status", resp, nil)
}

func (c *Controller) ListEntrants(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	status := EntrantStatus(ctx.Query("status"))
	if status == "" {
		status = StatusWaiting
	}

	resp, err := c.service.ListByStatus(ctx.Request.Context(), eventID, status)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Entrants", resp, nil)
}

func (c *Controller) GetCohortCounts(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return
	}

	resp, err := c.service.CohortCounts(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cohort counts", resp, nil)
}

func (c *Controller) CancelWaitingCohort(ctx *gin.Context) {
	eventID, organizerID, ok := c.eventAndUser(ctx)
	if !ok {
		return
	}

	resp, err := c.service.CancelWaitingCohort(ctx.Request.Context(), eventID, organizerID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waiting cohort cancelled", resp, nil)
}

func (c *Controller) eventAndUser(ctx *gin.Context) (uuid.UUID, string, bool) {
	eventID, err := uuid.Parse(ctx.Param("event_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, nil)
		return uuid.Nil, "", false
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, "", false
	}
	return eventID, userID, true
}
