package handlers

import (
	"net/http"

	request "garage_crm/internal/adapter/http/dto/request"
	response "garage_crm/internal/adapter/http/dto/response"
	"garage_crm/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PriceInquiryHandler struct {
	usecase usecase.IPriceInquiryUseCase
}

func NewPriceInquiryHandler(uc usecase.IPriceInquiryUseCase) *PriceInquiryHandler {
	return &PriceInquiryHandler{usecase: uc}
}

func (h *PriceInquiryHandler) List(c *gin.Context) {
	list, err := h.usecase.ListPriceInquiries(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPriceInquiries(list))
}

func (h *PriceInquiryHandler) Create(c *gin.Context) {
	var payload request.PriceInquiryRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	created, err := h.usecase.CreatePriceInquiry(c.Request.Context(), payload.ToCommand())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromPriceInquiry(created))
}

func (h *PriceInquiryHandler) Delete(c *gin.Context) {
	if err := h.usecase.DeletePriceInquiry(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
