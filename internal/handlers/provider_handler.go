package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
	"github.com/BruksfildServices01/clinic-scheduler/internal/wallclock"
)

type ProviderHandler struct {
	availability *ucAppointment.GetAvailability
	agenda       *ucAppointment.ListProviderAgenda
	getHours     *ucAppointment.GetBusinessHours
	updateHours  *ucAppointment.UpdateBusinessHours
	clock        timezone.Clock
}

func NewProviderHandler(
	availability *ucAppointment.GetAvailability,
	agenda *ucAppointment.ListProviderAgenda,
	getHours *ucAppointment.GetBusinessHours,
	updateHours *ucAppointment.UpdateBusinessHours,
	clock timezone.Clock,
) *ProviderHandler {
	return &ProviderHandler{
		availability: availability,
		agenda:       agenda,
		getHours:     getHours,
		updateHours:  updateHours,
		clock:        clock,
	}
}

// ownsSchedule lets a provider touch only its own schedule. Admins touch any.
func ownsSchedule(c *gin.Context) bool {
	ref, role := middleware.Actor(c)
	return role == middleware.RoleAdmin ||
		(role == middleware.RoleProvider && ref == c.Param("providerRef"))
}

// ======================================================
// AVAILABILITY (public)
// ======================================================

func (h *ProviderHandler) Availability(c *gin.Context) {
	if !validators.IsValidRef(c.Param("providerRef")) {
		httperr.BadRequest(c, "invalid_provider_ref", "providerRef is not a valid identifier")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "date is required")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucAppointment.AvailabilityInput{
		ProviderRef:     c.Param("providerRef"),
		Date:            date,
		DurationMinutes: queryInt(c, "duration"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"providerRef":    c.Param("providerRef"),
		"calendarDate":   date,
		"availableSlots": slots,
	})
}

// ======================================================
// AGENDA
// ======================================================

func (h *ProviderHandler) Agenda(c *gin.Context) {
	if !ownsSchedule(c) {
		httperr.Forbidden(c, "forbidden", "only the provider can read this agenda")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = wallclock.DateOf(h.clock.Now().In(h.clock.Location())).String()
	}

	apps, err := h.agenda.Execute(c.Request.Context(), c.Param("providerRef"), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(apps, h.clock.Now()))
}

// ======================================================
// BUSINESS HOURS
// ======================================================

func (h *ProviderHandler) GetBusinessHours(c *gin.Context) {
	days, err := h.getHours.Execute(c.Request.Context(), c.Param("providerRef"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, days)
}

func (h *ProviderHandler) UpdateBusinessHours(c *gin.Context) {
	if !ownsSchedule(c) {
		httperr.Forbidden(c, "forbidden", "only the provider can change its hours")
		return
	}

	var req dto.BusinessHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	days := make([]domain.WeeklyHours, 0, len(req.Days))
	for _, d := range req.Days {
		day, err := weeklyHoursFromRequest(d)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		days = append(days, day)
	}

	saved, err := h.updateHours.Execute(c.Request.Context(), c.Param("providerRef"), days)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved, "total": len(saved)})
}

func weeklyHoursFromRequest(d dto.WeeklyHoursRequest) (domain.WeeklyHours, error) {
	out := domain.WeeklyHours{Weekday: time.Weekday(d.Weekday)}
	if !d.Active {
		out.Closed = true
		return out, nil
	}

	var err error
	if out.Start, err = wallclock.ParseTimeOfDay(d.Start); err != nil {
		return out, err
	}
	if out.End, err = wallclock.ParseTimeOfDay(d.End); err != nil {
		return out, err
	}

	if d.BreakStart != "" || d.BreakEnd != "" {
		bs, err := wallclock.ParseTimeOfDay(d.BreakStart)
		if err != nil {
			return out, err
		}
		be, err := wallclock.ParseTimeOfDay(d.BreakEnd)
		if err != nil {
			return out, err
		}
		out.BreakStart = &bs
		out.BreakEnd = &be
	}
	return out, nil
}
