package handlers

import (
	"net/http"

	request "garage_crm/internal/adapter/http/dto/request"
	response "garage_crm/internal/adapter/http/dto/response"
	"garage_crm/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	usecase usecase.IAppointmentUseCase
}

func NewAppointmentHandler(uc usecase.IAppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{usecase: uc}
}

func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	list, err := h.usecase.ListAppointments(c.Request.Context(), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Slots godoc
// @Summary  Daily time slots with their booked flag
// @Tags     appointments
// @Param    date query string true "YYYY-MM-DD"
// @Success  200 {array} usecase.Slot
// @Router   /appointments/slots [get]
func (h *AppointmentHandler) Slots(c *gin.Context) {
	slots, err := h.usecase.Slots(c.Request.Context(), c.Query("date"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// BookAppointment godoc
// @Summary  Book an appointment
// @Tags     appointments
// @Param    body body request.AppointmentRequest true "Appointment"
// @Success  201 {object} entities.Appointment
// @Router   /appointments [post]
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var payload request.AppointmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	created, err := h.usecase.BookAppointment(c.Request.Context(), payload.ToCommand())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AppointmentHandler) TransitionStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	res, err := h.usecase.TransitionAppointment(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromMutation(res))
}
