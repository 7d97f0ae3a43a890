package entities

import "time"

// ServiceItem is a billable line of a job.
//
// AssignedBusiness selects which business invoices the line; items assigned to
// different businesses end up on separate invoices.
type ServiceItem struct {
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	AssignedBusiness string  `json:"assignedBusiness,omitempty"`
}

// Job is a service job tracked through the fixed job stages.
//
// Domain notes:
//   - Every transition is a full-record update on the API, not an appended event.
//   - TotalAmount is computed by the API from the service items and discount.
type Job struct {
	ID             string        `json:"_id"`
	CustomerID     string        `json:"customerId"`
	CustomerName   string        `json:"customerName"`
	CustomerPhone  string        `json:"customerPhone,omitempty"`
	VehicleName    string        `json:"vehicleName"`
	PlateNumber    string        `json:"plateNumber"`
	TechnicianID   *string       `json:"technicianId,omitempty"`
	TechnicianName string        `json:"technicianName,omitempty"`
	ServiceItems   []ServiceItem `json:"serviceItems"`
	Discount       float64       `json:"discount,omitempty"`
	TotalAmount    float64       `json:"totalAmount"`
	PaidAmount     float64       `json:"paidAmount,omitempty"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	Stage          JobStage      `json:"stage"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func (j Job) ResolvedStage() JobStage {
	return ResolveJobStage(string(j.Stage))
}

func (j Job) ItemsTotal() float64 {
	total := 0.0
	for _, it := range j.ServiceItems {
		total += it.Price
	}
	return total
}

// HasInvoice reports whether any invoice references this job.
func (j Job) HasInvoice(invoices []Invoice) bool {
	for _, inv := range invoices {
		if inv.JobID == j.ID {
			return true
		}
	}
	return false
}
