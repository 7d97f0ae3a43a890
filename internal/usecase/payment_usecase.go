package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"
)

var (
	ErrInvalidProviderPayload         = errors.New("invalid payment provider payload")
	ErrPaymentGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest       = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized     = errors.New("payment gateway unauthorized")
	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// IPaymentUseCase collects payments for jobs.
//
// A payment is charged through the provider first; the job's payment status is
// then updated through the mutation coordinator like any other field change.
// Payments of the same job run one at a time.
type IPaymentUseCase interface {
	CollectPayment(ctx context.Context, jobID string, amount float64, providerPayload json.RawMessage) (PaymentResult, error)
	ListPayments(ctx context.Context, jobID string) ([]entities.JobPayment, error)
}

type PaymentResult struct {
	Payment  entities.JobPayment          `json:"payment"`
	Mutation MutationResult[entities.Job] `json:"mutation"`
}

// PaymentOptions tunes the provider call. SandboxPayerEmail fills payer.email
// when the caller sent neither a payer id nor an email.
type PaymentOptions struct {
	MockMode          bool
	SandboxPayerEmail string
}

type PaymentUseCase struct {
	coord   *MutationCoordinator
	gateway interfaces.IPaymentGateway
	opts    PaymentOptions
	now     func() time.Time
	jobs    *keyedLock
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(coord *MutationCoordinator, gateway interfaces.IPaymentGateway, opts PaymentOptions) *PaymentUseCase {
	return &PaymentUseCase{coord: coord, gateway: gateway, opts: opts, now: time.Now, jobs: newKeyedLock()}
}

func (u *PaymentUseCase) CollectPayment(ctx context.Context, id string, amount float64, payload json.RawMessage) (PaymentResult, error) {
	id = strings.TrimSpace(id)
	log.Printf("[payment][usecase] collect start job_id=%q amount=%.2f payload_len=%d", id, amount, len(payload))
	if id == "" {
		return PaymentResult{}, ErrInvalidID
	}
	if amount <= 0 {
		return PaymentResult{}, ErrInvalidPaymentAmount
	}
	if len(payload) == 0 || !json.Valid(payload) {
		if !u.opts.MockMode {
			log.Printf("[payment][usecase] invalid payload job_id=%s", id)
			return PaymentResult{}, ErrInvalidProviderPayload
		}
		payload = json.RawMessage("{}")
	}
	if u.gateway == nil && !u.opts.MockMode {
		return PaymentResult{}, ErrPaymentGatewayNotConfigured
	}

	unlock := u.jobs.Lock(id)
	defer unlock()

	job, err := findCached(ctx, u.coord.cache, collectionKey(interfaces.CollectionJobs), jobsKey(JobFilter{}), id, jobID)
	if err != nil {
		return PaymentResult{}, err
	}
	if err := checkPayable(job); err != nil {
		return PaymentResult{}, err
	}

	req, err := u.enrichPayload(payload, job, amount)
	if err != nil {
		return PaymentResult{}, err
	}

	providerID, providerStatus, providerResp, err := u.charge(ctx, req, job, amount)
	if err != nil {
		log.Printf("[payment][usecase] payment gateway failed job_id=%s err=%v", id, err)
		return PaymentResult{}, classifyGatewayError(err)
	}
	log.Printf("[payment][usecase] payment gateway success job_id=%s provider_payment_id=%s provider_status=%s", id, providerID, providerStatus)

	status := settledStatus(job, amount)

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed job_id=%s err=%v", id, err)
	}
	payment := entities.JobPayment{
		ID:                 providerID,
		JobID:              id,
		Amount:             amount,
		Date:               u.now().UTC(),
		ProviderStatus:     providerStatus,
		JobStatus:          status,
		ProviderPayloadRaw: providerResp,
		ProviderPayload:    parsed,
	}

	if err := u.coord.remote.Create(ctx, interfaces.CollectionPayments, payment, nil); err != nil {
		log.Printf("[payment][usecase] payment record failed job_id=%s payment_id=%s err=%v", id, payment.ID, err)
		u.coord.reportFailure(ctx, "Failed to record payment", err)
		return PaymentResult{Payment: payment}, &MutationError{Kind: MutationErrorRemote, Message: userMessage(err), Err: err}
	}

	res, err := runMutation(ctx, u.coord, mutation[entities.Job]{
		Collection: interfaces.CollectionJobs,
		ID:         id,
		View:       jobsKey(JobFilter{}),
		IDOf:       jobID,
		Check:      checkPayable,
		Apply: func(cur entities.Job) entities.Job {
			cur.PaymentStatus = settledStatus(cur, amount)
			cur.PaidAmount += amount
			return cur
		},
		PayloadOf: func(next entities.Job) map[string]any {
			return map[string]any{"paidAmount": next.PaidAmount, "paymentStatus": string(next.PaymentStatus)}
		},
		DependsOn: []string{interfaces.CollectionInvoices, interfaces.CollectionDashboard},
		Success: entities.Notification{
			Title:       "Payment recorded",
			Description: fmt.Sprintf("Job is %s", status),
		},
	})
	return PaymentResult{Payment: payment, Mutation: res}, err
}

func (u *PaymentUseCase) ListPayments(ctx context.Context, jobID string) ([]entities.JobPayment, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, ErrInvalidID
	}
	var payments []entities.JobPayment
	if err := u.coord.remote.List(ctx, interfaces.CollectionPayments, map[string]string{"job_id": jobID}, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// settledStatus is the payment status of j once amount is added to it.
func settledStatus(j entities.Job, amount float64) entities.PaymentStatus {
	if j.PaidAmount+amount >= j.TotalAmount {
		return entities.PaymentPaid
	}
	return entities.PaymentPartiallyPaid
}

func checkPayable(j entities.Job) error {
	if j.ResolvedStage() == entities.JobStageCancelled {
		return fmt.Errorf("%w: %s", ErrJobCancelled, j.ID)
	}
	return nil
}

// enrichPayload links the provider request to the job. The charged amount
// always comes from the caller, never from the provider payload.
func (u *PaymentUseCase) enrichPayload(payload json.RawMessage, job entities.Job, amount float64) (json.RawMessage, error) {
	var req map[string]any
	if err := json.Unmarshal(payload, &req); err != nil || req == nil {
		if !u.opts.MockMode {
			return nil, ErrInvalidProviderPayload
		}
		req = map[string]any{}
	}
	if !u.opts.MockMode {
		if !hasNonEmptyString(req, "payment_method_id") {
			return nil, fmt.Errorf("%w: missing payment_method_id", ErrInvalidProviderPayload)
		}
		u.ensurePayer(req)
		if !hasPayer(req) {
			return nil, fmt.Errorf("%w: missing payer", ErrInvalidProviderPayload)
		}
	}
	if _, ok := req["external_reference"]; !ok {
		req["external_reference"] = job.ID
	}
	if _, ok := req["description"]; !ok {
		req["description"] = fmt.Sprintf("Job %s - %s", job.ID, job.VehicleName)
	}
	req["transaction_amount"] = amount
	return json.Marshal(req)
}

func (u *PaymentUseCase) charge(ctx context.Context, req json.RawMessage, job entities.Job, amount float64) (string, string, json.RawMessage, error) {
	if !u.opts.MockMode {
		return u.gateway.CreatePayment(ctx, req)
	}
	log.Printf("[payment][usecase] mock mode enabled; skipping external payment gateway job_id=%s", job.ID)
	id := strconv.FormatInt(u.now().UTC().UnixNano(), 10)
	now := u.now().UTC().Format(time.RFC3339Nano)
	resp := map[string]any{}
	_ = json.Unmarshal(req, &resp)
	resp["id"] = id
	resp["status"] = "approved"
	resp["status_detail"] = "accredited"
	resp["date_created"] = now
	resp["date_approved"] = now
	resp["transaction_amount"] = amount
	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, err
	}
	return id, "approved", b, nil
}

func (u *PaymentUseCase) ensurePayer(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}
	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	if !hasPayerID(payer) && !hasNonEmptyString(payer, "email") && u.opts.SandboxPayerEmail != "" {
		payer["email"] = u.opts.SandboxPayerEmail
	}
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayer(m map[string]any) bool {
	payer, ok := m["payer"].(map[string]any)
	if !ok {
		return false
	}
	return hasNonEmptyString(payer, "email") || hasPayerID(payer)
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

// classifyGatewayError maps Mercado Pago error bodies to sentinels.
func classifyGatewayError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayCustomerNotFound, err)
	case strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayInvalidUsers, err)
	case strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayUnauthorized, err)
	case strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400"):
		return fmt.Errorf("%w: %v", ErrPaymentGatewayBadRequest, err)
	}
	return err
}
