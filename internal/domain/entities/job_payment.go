package entities

import (
	"encoding/json"
	"time"
)

// JobPayment is a payment collected for a job through the payment provider.
//
// ProviderPayloadRaw keeps the provider response for traceability; ProviderPayload
// is its parsed form when the body is valid JSON.
type JobPayment struct {
	ID             string        `json:"id"`
	JobID          string        `json:"job_id"`
	Amount         float64       `json:"amount"`
	Date           time.Time     `json:"date"`
	ProviderStatus string        `json:"provider_status"`
	JobStatus      PaymentStatus `json:"job_payment_status"`

	ProviderPayloadRaw json.RawMessage        `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}
