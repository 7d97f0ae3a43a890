package response

import (
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase"
)

type PaymentResponse struct {
	PaymentID      string    `json:"payment_id"`
	JobID          string    `json:"job_id"`
	Amount         float64   `json:"amount"`
	Date           time.Time `json:"date"`
	ProviderStatus string    `json:"provider_status"`
	PaymentStatus  string    `json:"payment_status"`

	ProviderPayloadRaw string                 `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}

func FromJobPayment(p entities.JobPayment) PaymentResponse {
	return PaymentResponse{
		PaymentID:          p.ID,
		JobID:              p.JobID,
		Amount:             p.Amount,
		Date:               p.Date,
		ProviderStatus:     p.ProviderStatus,
		PaymentStatus:      string(p.JobStatus),
		ProviderPayloadRaw: string(p.ProviderPayloadRaw),
		ProviderPayload:    p.ProviderPayload,
	}
}

func FromJobPayments(list []entities.JobPayment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromJobPayment(p))
	}
	return out
}

type CollectPaymentResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Mutation MutationResponse `json:"mutation"`
}

func FromPaymentResult(r usecase.PaymentResult) CollectPaymentResponse {
	return CollectPaymentResponse{Payment: FromJobPayment(r.Payment), Mutation: FromMutation(r.Mutation)}
}
