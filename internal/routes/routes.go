package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	Config *config.Config
	Repo   domain.Repository
	Hours  domain.HoursRepository
	Audit  ucAppointment.AuditTrail
	Locker domain.Locker
	Events domain.Publisher
	Clock  timezone.Clock
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES / APPOINTMENTS
	// ======================================================
	policy := d.Config.ReminderPolicy()

	bookUC := ucAppointment.NewBookAppointment(d.Repo, d.Locker, d.Events, d.Clock, policy)
	rescheduleUC := ucAppointment.NewRescheduleAppointment(d.Repo, d.Locker, d.Events, d.Clock, policy)
	cancelUC := ucAppointment.NewCancelAppointment(d.Repo, d.Events, d.Clock)
	transitionUC := ucAppointment.NewTransitionAppointment(d.Repo, d.Events, d.Clock)
	getUC := ucAppointment.NewGetAppointment(d.Repo)
	listUC := ucAppointment.NewListPatientAppointments(d.Repo, d.Clock)
	historyUC := ucAppointment.NewGetAppointmentHistory(d.Repo, d.Audit)

	// ======================================================
	// USE CASES / PROVIDERS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(
		d.Repo,
		d.Hours,
		d.Clock,
		d.Config.BusinessHours(),
		d.Config.SlotGranularity(),
	)
	agendaUC := ucAppointment.NewListProviderAgenda(d.Repo)
	getHoursUC := ucAppointment.NewGetBusinessHours(d.Hours)
	updateHoursUC := ucAppointment.NewUpdateBusinessHours(d.Hours)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		rescheduleUC,
		cancelUC,
		transitionUC,
		getUC,
		listUC,
		historyUC,
		d.Clock,
	)

	providerHandler := handlers.NewProviderHandler(
		availabilityUC,
		agendaUC,
		getHoursUC,
		updateHoursUC,
		d.Clock,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/providers/:providerRef/availability", providerHandler.Availability)

		// ------------------------------
		// SECURED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			staff := middleware.RequireRole(middleware.RoleProvider, middleware.RoleAdmin)

			secured.GET("/providers/:providerRef/business-hours", providerHandler.GetBusinessHours)
			secured.PUT("/providers/:providerRef/business-hours", staff, providerHandler.UpdateBusinessHours)
			secured.GET("/providers/:providerRef/appointments", staff, providerHandler.Agenda)

			secured.POST("/appointments", appointmentHandler.Book)
			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.GET("/appointments/:id/history", appointmentHandler.History)

			secured.PUT("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PUT("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/start", staff, appointmentHandler.Start)
			secured.PATCH("/appointments/:id/complete", staff, appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", staff, appointmentHandler.MarkNoShow)
		}
	}
}
