package entities

import "time"

// Invoice is generated by the API when a job reaches Completed, one per
// assigned business. This service only reads invoices.
type Invoice struct {
	ID            string    `json:"_id"`
	InvoiceNumber string    `json:"invoiceNumber,omitempty"`
	JobID         string    `json:"jobId"`
	CustomerID    string    `json:"customerId,omitempty"`
	Business      string    `json:"business,omitempty"`
	Amount        float64   `json:"totalAmount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Technician struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

// DashboardSummary is the aggregate the dashboard view renders.
type DashboardSummary struct {
	TotalCustomers  int     `json:"totalCustomers"`
	ActiveJobs      int     `json:"activeJobs"`
	CompletedJobs   int     `json:"completedJobs"`
	CancelledJobs   int     `json:"cancelledJobs"`
	PendingPayments int     `json:"pendingPayments"`
	TotalRevenue    float64 `json:"totalRevenue"`
}
