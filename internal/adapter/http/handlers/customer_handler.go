package handlers

import (
	"log"
	"net/http"

	request "garage_crm/internal/adapter/http/dto/request"
	response "garage_crm/internal/adapter/http/dto/response"
	"garage_crm/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	usecase usecase.ICustomerUseCase
}

func NewCustomerHandler(uc usecase.ICustomerUseCase) *CustomerHandler {
	return &CustomerHandler{usecase: uc}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	list, err := h.usecase.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Funnel godoc
// @Summary  Customers grouped by funnel stage
// @Tags     customers
// @Param    search query string false "Name, phone or vehicle"
// @Success  200 {object} usecase.Funnel
// @Router   /customers/funnel [get]
func (h *CustomerHandler) Funnel(c *gin.Context) {
	funnel, err := h.usecase.Funnel(c.Request.Context(), c.Query("search"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, funnel)
}

func (h *CustomerHandler) Details(c *gin.Context) {
	details, err := h.usecase.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// RegisterCustomer godoc
// @Summary  Register a customer
// @Tags     customers
// @Param    body body request.CustomerRequest true "Customer"
// @Success  201 {object} entities.Customer
// @Router   /customers [post]
func (h *CustomerHandler) RegisterCustomer(c *gin.Context) {
	var payload request.CustomerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	created, err := h.usecase.RegisterCustomer(c.Request.Context(), payload.ToCommand())
	if err != nil {
		log.Printf("[customer][handler] register failed err=%v", err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// TransitionStatus godoc
// @Summary  Move a customer to another funnel stage
// @Tags     customers
// @Param    id   path string                true "Customer id"
// @Param    body body request.StatusRequest true "Target stage"
// @Success  200 {object} response.MutationResponse
// @Router   /customers/{id}/status [patch]
func (h *CustomerHandler) TransitionStatus(c *gin.Context) {
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	res, err := h.usecase.TransitionCustomerStage(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromMutation(res))
}
