package usecase

import (
	"context"
	"sync"
	"testing"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/infrastructure/cache"
	"garage_crm/internal/usecase/interfaces"
	mock_interfaces "garage_crm/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// serverError mimics a remote store error carrying a user-facing message.
type serverError struct{ msg string }

func (e serverError) Error() string       { return "remote: " + e.msg }
func (e serverError) UserMessage() string { return e.msg }

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n entities.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) last(t *testing.T) entities.Notification {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		t.Fatalf("expected a notification")
	}
	return r.sent[len(r.sent)-1]
}

var _ interfaces.INotifier = (*recordingNotifier)(nil)

type fixture struct {
	cache    *cache.QueryClient
	remote   *mock_interfaces.MockIRemoteStore
	notifier *recordingNotifier
	coord    *MutationCoordinator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	qc := cache.NewQueryClient()
	remote := mock_interfaces.NewMockIRemoteStore(ctrl)
	n := &recordingNotifier{}
	return fixture{cache: qc, remote: remote, notifier: n, coord: NewMutationCoordinator(qc, remote, n)}
}

func (f fixture) cachedJobs(t *testing.T, key cache.QueryKey) []entities.Job {
	t.Helper()
	data, ok := f.cache.GetQueryData(key)
	if !ok {
		t.Fatalf("nothing cached for %s", key)
	}
	return data.([]entities.Job)
}

func strPtr(s string) *string { return &s }

func j1() entities.Job {
	return entities.Job{
		ID:           "J1",
		CustomerID:   "C1",
		CustomerName: "Ravi Kumar",
		VehicleName:  "Honda Civic",
		PlateNumber:  "MH12AB1234",
		TechnicianID: strPtr("T1"),
		ServiceItems: []entities.ServiceItem{
			{Name: "Oil change", Price: 500},
			{Name: "Brake pads", Price: 1200},
		},
		TotalAmount:   1700,
		PaymentStatus: entities.PaymentPending,
		Stage:         entities.JobStageWorkInProgress,
	}
}

func j2() entities.Job {
	return entities.Job{
		ID:            "J2",
		CustomerID:    "C2",
		CustomerName:  "Anita Shah",
		VehicleName:   "Maruti Swift",
		PlateNumber:   "MH14CD5678",
		TotalAmount:   900,
		PaymentStatus: entities.PaymentPending,
		Stage:         entities.JobStageNewLead,
	}
}
