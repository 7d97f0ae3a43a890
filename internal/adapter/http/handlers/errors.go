package handlers

import (
	"errors"
	"net/http"

	"garage_crm/internal/usecase"
	"garage_crm/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// mapUseCaseError turns a use case error into the HTTP error returned to clients.
// Remote failures keep the message the store attached for users.
func mapUseCaseError(err error) *pkg.AppError {
	var mErr *usecase.MutationError
	if errors.As(err, &mErr) && mErr.Kind == usecase.MutationErrorRemote {
		return pkg.NewDomainError("REMOTE_ERROR", mErr.Message, err, http.StatusBadGateway)
	}

	switch {
	case errors.Is(err, usecase.ErrEntityNotFound):
		return pkg.NewDomainErrorSimple("NOT_FOUND", "Record not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidPhone):
		return pkg.NewDomainErrorSimple("INVALID_PHONE", "Phone number must have exactly 10 digits", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidEmail):
		return pkg.NewDomainErrorSimple("INVALID_EMAIL", "Invalid email address", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidDate), errors.Is(err, usecase.ErrInvalidSlot):
		return pkg.NewDomainErrorSimple("INVALID_SLOT", "Invalid date or time slot", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidStage):
		return pkg.NewDomainErrorSimple("INVALID_STAGE", "Unknown stage", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownBusiness), errors.Is(err, usecase.ErrAssignmentMismatch):
		return pkg.NewDomainErrorSimple("INVALID_ASSIGNMENT", "Every service item must be assigned to a known business", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrInvalidCustomer),
		errors.Is(err, usecase.ErrInvalidAppointment),
		errors.Is(err, usecase.ErrInvalidPriceInquiry),
		errors.Is(err, usecase.ErrInvalidPaymentAmount),
		errors.Is(err, usecase.ErrInvalidProviderPayload),
		errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return errInvalidPayload
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAVAILABLE", "Payment provider not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrSlotTaken):
		return pkg.NewDomainErrorSimple("SLOT_TAKEN", "Time slot already booked", http.StatusConflict)
	case errors.Is(err, usecase.ErrTerminalStage):
		return pkg.NewDomainErrorSimple("TERMINAL_STAGE", "Record is closed and can no longer change", http.StatusConflict)
	case errors.Is(err, usecase.ErrJobCancelled):
		return pkg.NewDomainErrorSimple("JOB_CANCELLED", "Job is cancelled", http.StatusConflict)
	case errors.Is(err, usecase.ErrCompletionRequiresAssignment):
		return pkg.NewDomainErrorSimple("COMPLETION_REQUIRES_ASSIGNMENT", "Complete the job through business assignment", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Transition not permitted", http.StatusUnprocessableEntity)
	}

	var um interface{ UserMessage() string }
	if errors.As(err, &um) && um.UserMessage() != "" {
		return pkg.NewDomainError("REMOTE_ERROR", um.UserMessage(), err, http.StatusBadGateway)
	}
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

func abortWithError(c *gin.Context, err error) {
	appErr := mapUseCaseError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
