package interfaces

import "context"

// Collection names understood by the remote API.
const (
	CollectionCustomers      = "customers"
	CollectionJobs           = "jobs"
	CollectionAppointments   = "appointments"
	CollectionInvoices       = "invoices"
	CollectionTechnicians    = "technicians"
	CollectionPriceInquiries = "price-inquiries"
	CollectionDashboard      = "dashboard"
	CollectionPayments       = "payments"
)

// IRemoteStore abstracts the remote data-access API the CRM talks to.
//
// Results are decoded into out, which must be a pointer (a slice pointer for List,
// except for aggregate collections such as dashboard). Errors that carry a message
// meant for users implement `UserMessage() string`.
type IRemoteStore interface {
	List(ctx context.Context, collection string, filters map[string]string, out any) error
	Create(ctx context.Context, collection string, payload any, out any) error
	Update(ctx context.Context, collection string, id string, patch map[string]any, out any) error
	Delete(ctx context.Context, collection string, id string) error
}
