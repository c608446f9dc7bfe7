package response

import (
	"errors"
	"net/http"

	"entrantly/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errs interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errs,
	})
}

// RespondError maps a core error to its HTTP status and writes the standard
// error envelope. Unrecognized errors become a 500.
func RespondError(c *gin.Context, err error) {
	RespondJSON(c, "error", StatusCodeFor(err), err.Error(), nil, nil)
}

// StatusCodeFor maps the core error taxonomy onto HTTP status codes.
func StatusCodeFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrEventOnHold),
		errors.Is(err, apperrors.ErrEventClosed),
		errors.Is(err, apperrors.ErrOrganizerBanned):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrAlreadyJoined),
		errors.Is(err, apperrors.ErrWaitlistFull),
		errors.Is(err, apperrors.ErrNotOnWaitingList):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrMissingLocation),
		errors.Is(err, apperrors.ErrSelectionCountRequired):
		return http.StatusBadRequest
	case apperrors.IsInvalidTransition(err):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
