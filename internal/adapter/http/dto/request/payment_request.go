package request

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidPaymentBody = errors.New("request body is not valid json")
	ErrEmptyProviderBody  = errors.New("provider_payload cannot be empty")
)

// PaymentRequest is the body of POST /jobs/:id/payments. ProviderPayload is
// forwarded to the payment provider as is.
type PaymentRequest struct {
	Amount          float64         `json:"amount"`
	ProviderPayload json.RawMessage `json:"provider_payload"`
}

// ParsePaymentRequest reads the payment body. An empty body is an empty request;
// a present but null provider_payload is rejected.
func ParsePaymentRequest(raw []byte) (PaymentRequest, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return PaymentRequest{ProviderPayload: json.RawMessage("{}")}, nil
	}
	if !json.Valid(raw) {
		return PaymentRequest{}, ErrInvalidPaymentBody
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return PaymentRequest{}, ErrInvalidPaymentBody
	}
	var req PaymentRequest
	if amount, ok := envelope["amount"]; ok {
		if err := json.Unmarshal(amount, &req.Amount); err != nil {
			return PaymentRequest{}, ErrInvalidPaymentBody
		}
	}
	wrapped, ok := envelope["provider_payload"]
	if !ok {
		req.ProviderPayload = json.RawMessage("{}")
		return req, nil
	}
	if v := strings.TrimSpace(string(wrapped)); v == "" || v == "null" {
		return PaymentRequest{}, ErrEmptyProviderBody
	}
	req.ProviderPayload = wrapped
	return req, nil
}
