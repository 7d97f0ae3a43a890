package handlers

import (
	"log"
	"net/http"

	request "garage_crm/internal/adapter/http/dto/request"
	response "garage_crm/internal/adapter/http/dto/response"
	"garage_crm/internal/usecase"

	"github.com/gin-gonic/gin"
)

// JobHandler serves the job board, stage transitions and the completion flow.
type JobHandler struct {
	usecase  usecase.IJobUseCase
	payments usecase.IPaymentUseCase
}

func NewJobHandler(uc usecase.IJobUseCase, payments usecase.IPaymentUseCase) *JobHandler {
	return &JobHandler{usecase: uc, payments: payments}
}

// ListJobs godoc
// @Summary  List jobs
// @Tags     jobs
// @Param    search query string false "Customer, vehicle or plate"
// @Param    stage  query string false "Stage or all"
// @Success  200 {array} entities.Job
// @Router   /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	var q request.JobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Printf("[job][handler] invalid query err=%v", err)
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	jobs, err := h.usecase.ListJobs(c.Request.Context(), q.ToFilter())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Board godoc
// @Summary  Job board grouped by stage
// @Tags     jobs
// @Success  200 {object} usecase.JobBoard
// @Router   /jobs/board [get]
func (h *JobHandler) Board(c *gin.Context) {
	var q request.JobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Printf("[job][handler] invalid query err=%v", err)
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	board, err := h.usecase.Board(c.Request.Context(), q.ToFilter())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// TransitionStage godoc
// @Summary  Move a job to another stage
// @Tags     jobs
// @Param    id   path string               true "Job id"
// @Param    body body request.StageRequest true "Target stage"
// @Success  200 {object} response.MutationResponse
// @Router   /jobs/{id}/stage [patch]
func (h *JobHandler) TransitionStage(c *gin.Context) {
	id := c.Param("id")
	var payload request.StageRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	log.Printf("[job][handler] transition start job_id=%s stage=%q", id, payload.Stage)

	res, err := h.usecase.TransitionJobStage(c.Request.Context(), id, payload.Stage)
	if err != nil {
		log.Printf("[job][handler] transition failed job_id=%s err=%v", id, err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromMutation(res))
}

// PrepareCompletion godoc
// @Summary  Business assignment draft for completing a job
// @Tags     jobs
// @Param    id path string true "Job id"
// @Success  200 {object} usecase.CompletionDraft
// @Router   /jobs/{id}/completion [get]
func (h *JobHandler) PrepareCompletion(c *gin.Context) {
	draft, err := h.usecase.PrepareCompletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// CompleteJob godoc
// @Summary  Complete a job with its business assignment
// @Tags     jobs
// @Param    id   path string                     true "Job id"
// @Param    body body request.CompleteJobRequest true "Assigned service items"
// @Success  200 {object} response.MutationResponse
// @Router   /jobs/{id}/complete [post]
func (h *JobHandler) CompleteJob(c *gin.Context) {
	id := c.Param("id")
	var payload request.CompleteJobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	log.Printf("[job][handler] complete start job_id=%s items=%d", id, len(payload.ServiceItems))

	res, err := h.usecase.CompleteJob(c.Request.Context(), id, payload.ToCommand())
	if err != nil {
		log.Printf("[job][handler] complete failed job_id=%s err=%v", id, err)
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromMutation(res))
}

// CollectPayment godoc
// @Summary  Collect a payment for a job
// @Tags     payments
// @Param    id path string true "Job id"
// @Success  200 {object} response.CollectPaymentResponse
// @Router   /jobs/{id}/payments [post]
func (h *JobHandler) CollectPayment(c *gin.Context) {
	id := c.Param("id")
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}
	payload, err := request.ParsePaymentRequest(raw)
	if err != nil {
		log.Printf("[payment][handler] invalid payload job_id=%s err=%v", id, err)
		c.JSON(errInvalidPayload.HTTPStatus, errInvalidPayload.ToHTTPError())
		return
	}

	res, err := h.payments.CollectPayment(c.Request.Context(), id, payload.Amount, payload.ProviderPayload)
	if err != nil {
		log.Printf("[payment][handler] collect failed job_id=%s err=%v", id, err)
		abortWithError(c, err)
		return
	}
	log.Printf("[payment][handler] collect success job_id=%s payment_id=%s", id, res.Payment.ID)
	c.JSON(http.StatusOK, response.FromPaymentResult(res))
}

// ListPayments godoc
// @Summary  Payments collected for a job
// @Tags     payments
// @Param    id path string true "Job id"
// @Success  200 {array} response.PaymentResponse
// @Router   /jobs/{id}/payments [get]
func (h *JobHandler) ListPayments(c *gin.Context) {
	list, err := h.payments.ListPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromJobPayments(list))
}

func (h *JobHandler) ListTechnicians(c *gin.Context) {
	list, err := h.usecase.ListTechnicians(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *JobHandler) ListInvoices(c *gin.Context) {
	list, err := h.usecase.ListInvoices(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Dashboard godoc
// @Summary  Dashboard summary
// @Tags     dashboard
// @Success  200 {object} entities.DashboardSummary
// @Router   /dashboard [get]
func (h *JobHandler) Dashboard(c *gin.Context) {
	summary, err := h.usecase.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListStages returns the stage tables of every funnel.
func ListStages(c *gin.Context) {
	c.JSON(http.StatusOK, response.Stages())
}
