package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// ======================================================
// DOMAIN ERROR MAPPING
// ======================================================

// FromError writes err with the status its kind maps to. Unknown errors
// are logged and answered with internal_error.
func FromError(c *gin.Context, err error) {
	resp, status := Describe(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
	}
	c.JSON(status, resp)
}

// Describe maps err to its response body and status.
func Describe(err error) (HTTPError, int) {
	var (
		validation domain.ValidationError
		badTime    wallclock.InvalidTimeFormatError
		badDate    wallclock.InvalidDateError
		past       domain.PastAppointmentError
		conflict   domain.SlotConflictError
		reschedule domain.RescheduleWindowError
		cancel     domain.CancelWindowError
		transition domain.InvalidStatusTransitionError
		business   BusinessError
	)

	switch {
	case errors.As(err, &validation):
		return HTTPError{
			Code:    validation.Code(),
			Message: validation.Error(),
			Details: gin.H{"field": validation.Field},
		}, http.StatusBadRequest

	case errors.As(err, &badTime):
		return HTTPError{
			Code:    badTime.Code(),
			Message: badTime.Error(),
			Details: gin.H{"value": badTime.Value, "expected": "HH:MM AM/PM"},
		}, http.StatusBadRequest

	case errors.As(err, &badDate):
		return HTTPError{
			Code:    badDate.Code(),
			Message: badDate.Error(),
			Details: gin.H{"value": badDate.Value, "expected": "YYYY-MM-DD"},
		}, http.StatusBadRequest

	case errors.Is(err, domain.ErrNotFound):
		return HTTPError{
			Code:    "appointment_not_found",
			Message: "appointment not found",
		}, http.StatusNotFound

	case errors.As(err, &conflict):
		var details any
		if conflict.ConflictingID != "" {
			details = gin.H{"conflictingAppointmentId": conflict.ConflictingID}
		}
		return HTTPError{
			Code:    conflict.Code(),
			Message: conflict.Error(),
			Details: details,
		}, http.StatusConflict

	case errors.Is(err, domain.ErrScheduleBusy):
		return HTTPError{
			Code:    "schedule_busy",
			Message: "the provider schedule is being changed, try again",
		}, http.StatusConflict

	case errors.Is(err, domain.ErrStaleAppointment):
		return HTTPError{
			Code:    "appointment_modified",
			Message: "the appointment changed while this request ran, reload and try again",
		}, http.StatusConflict

	case errors.As(err, &past):
		return HTTPError{Code: past.Code(), Message: past.Error()}, http.StatusUnprocessableEntity

	case errors.As(err, &reschedule):
		return HTTPError{
			Code:    reschedule.Code(),
			Message: reschedule.Error(),
			Details: gin.H{"hoursRemaining": reschedule.HoursRemaining},
		}, http.StatusUnprocessableEntity

	case errors.As(err, &cancel):
		return HTTPError{
			Code:    cancel.Code(),
			Message: cancel.Error(),
			Details: gin.H{"hoursRemaining": cancel.HoursRemaining},
		}, http.StatusUnprocessableEntity

	case errors.As(err, &transition):
		return HTTPError{
			Code:    transition.Code(),
			Message: transition.Error(),
			Details: gin.H{"from": transition.From, "to": transition.To},
		}, http.StatusUnprocessableEntity

	case errors.As(err, &business):
		return HTTPError{Code: business.Code, Message: business.Code}, http.StatusBadRequest
	}

	return HTTPError{
		Code:    "internal_error",
		Message: "unexpected error",
	}, http.StatusInternalServerError
}
