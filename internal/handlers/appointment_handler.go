package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *ucAppointment.BookAppointment
	reschedule *ucAppointment.RescheduleAppointment
	cancel     *ucAppointment.CancelAppointment
	transition *ucAppointment.TransitionAppointment
	get        *ucAppointment.GetAppointment
	list       *ucAppointment.ListPatientAppointments
	history    *ucAppointment.GetAppointmentHistory
	clock      timezone.Clock
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	reschedule *ucAppointment.RescheduleAppointment,
	cancel *ucAppointment.CancelAppointment,
	transition *ucAppointment.TransitionAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListPatientAppointments,
	history *ucAppointment.GetAppointmentHistory,
	clock timezone.Clock,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		reschedule: reschedule,
		cancel:     cancel,
		transition: transition,
		get:        get,
		list:       list,
		history:    history,
		clock:      clock,
	}
}

// ======================================================
// HELPERS
// ======================================================

// scopeRef is the ref appointments are filtered by. Admins see everything.
func scopeRef(c *gin.Context) string {
	ref, role := middleware.Actor(c)
	if role == middleware.RoleAdmin {
		return ""
	}
	return ref
}

func cancelledBy(role string) domain.CancelledBy {
	switch role {
	case middleware.RoleProvider:
		return domain.CancelledByProvider
	case middleware.RoleAdmin:
		return domain.CancelledBySystem
	}
	return domain.CancelledByPatient
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, httperr.HTTPError{
		Code:    "invalid_request",
		Message: "request body is invalid",
		Details: err.Error(),
	})
}

func (h *AppointmentHandler) respond(c *gin.Context, status int, ap *domain.Appointment) {
	c.JSON(status, dto.FromAppointment(ap, h.clock.Now()))
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	ref, role := middleware.Actor(c)

	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patientRef := ref
	if role != middleware.RolePatient && strings.TrimSpace(req.PatientRef) != "" {
		patientRef = strings.TrimSpace(req.PatientRef)
	}

	for _, r := range []string{patientRef, req.ProviderRef} {
		if !validators.IsValidRef(r) {
			httperr.BadRequest(c, "invalid_ref", "patientRef and providerRef must be valid identifiers")
			return
		}
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookInput{
		PatientRef:      patientRef,
		ProviderRef:     req.ProviderRef,
		Date:            req.CalendarDate,
		TimeOfDay:       req.TimeOfDay,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Reason:          req.Reason,
		Location:        req.Location,
		Room:            req.Room,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, ap)
}

// ======================================================
// RESCHEDULE / CANCEL
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleInput{
		AppointmentID: c.Param("id"),
		ActorRef:      scopeRef(c),
		Date:          req.CalendarDate,
		TimeOfDay:     req.TimeOfDay,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respond(c, http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	_, role := middleware.Actor(c)

	var req dto.CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	ap, err := h.cancel.Execute(c.Request.Context(), ucAppointment.CancelInput{
		AppointmentID: c.Param("id"),
		ActorRef:      scopeRef(c),
		CancelledBy:   cancelledBy(role),
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respond(c, http.StatusOK, ap)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context)    { h.transitionTo(c, domain.StatusConfirmed) }
func (h *AppointmentHandler) Start(c *gin.Context)      { h.transitionTo(c, domain.StatusInProgress) }
func (h *AppointmentHandler) Complete(c *gin.Context)   { h.transitionTo(c, domain.StatusCompleted) }
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) { h.transitionTo(c, domain.StatusNoShow) }

func (h *AppointmentHandler) transitionTo(c *gin.Context, to domain.Status) {
	ap, err := h.transition.Execute(c.Request.Context(), c.Param("id"), scopeRef(c), to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respond(c, http.StatusOK, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.get.Execute(c.Request.Context(), c.Param("id"), scopeRef(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.respond(c, http.StatusOK, ap)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	patientRef, role := middleware.Actor(c)
	if role == middleware.RoleAdmin && c.Query("patientRef") != "" {
		patientRef = c.Query("patientRef")
	}

	res, err := h.list.Execute(c.Request.Context(), ucAppointment.PatientListInput{
		PatientRef: patientRef,
		View:       c.Query("view"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Paged(c, dto.FromAppointments(res.Appointments, h.clock.Now()), res.Total, res.Pagination)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	res, err := h.history.Execute(
		c.Request.Context(),
		c.Param("id"),
		scopeRef(c),
		queryInt(c, "page"),
		queryInt(c, "limit"),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Paged(c, dto.FromAuditLogs(res.Entries), res.Total, res.Pagination)
}
