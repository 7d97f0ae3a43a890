package routes

import (
	"net/http"

	"garage_crm/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathJobs           = "/jobs"
	PathCustomers      = "/customers"
	PathAppointments   = "/appointments"
	PathPriceInquiries = "/price-inquiries"
)

type handlerSet struct {
	jobs          *handlers.JobHandler
	customers     *handlers.CustomerHandler
	appointments  *handlers.AppointmentHandler
	priceInquiry  *handlers.PriceInquiryHandler
	notifications *handlers.NotificationHandler
}

func addRoutes(rg *gin.RouterGroup, h handlerSet) {
	addPingRoutes(rg)
	rg.GET("/stages", handlers.ListStages)
	rg.GET("/dashboard", h.jobs.Dashboard)
	rg.GET("/technicians", h.jobs.ListTechnicians)
	rg.GET("/invoices", h.jobs.ListInvoices)
	rg.GET("/notifications", h.notifications.List)

	jobs := rg.Group(PathJobs)
	{
		jobs.GET("", h.jobs.ListJobs)
		jobs.GET("/board", h.jobs.Board)
		jobs.PATCH("/:id/stage", h.jobs.TransitionStage)
		jobs.GET("/:id/completion", h.jobs.PrepareCompletion)
		jobs.POST("/:id/complete", h.jobs.CompleteJob)
		jobs.POST("/:id/payments", h.jobs.CollectPayment)
		jobs.GET("/:id/payments", h.jobs.ListPayments)
	}

	customers := rg.Group(PathCustomers)
	{
		customers.GET("", h.customers.ListCustomers)
		customers.GET("/funnel", h.customers.Funnel)
		customers.GET("/:id", h.customers.Details)
		customers.POST("", h.customers.RegisterCustomer)
		customers.PATCH("/:id/status", h.customers.TransitionStatus)
	}

	appointments := rg.Group(PathAppointments)
	{
		appointments.GET("", h.appointments.ListAppointments)
		appointments.GET("/slots", h.appointments.Slots)
		appointments.POST("", h.appointments.BookAppointment)
		appointments.PATCH("/:id/status", h.appointments.TransitionStatus)
	}

	inquiries := rg.Group(PathPriceInquiries)
	{
		inquiries.GET("", h.priceInquiry.List)
		inquiries.POST("", h.priceInquiry.Create)
		inquiries.DELETE("/:id", h.priceInquiry.Delete)
	}
}

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}
