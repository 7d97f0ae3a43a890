package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

func customers() []entities.Customer {
	return []entities.Customer{
		{ID: "C1", Name: "Ravi Kumar", Phone: "9876543210", Vehicles: []entities.Vehicle{{Make: "Honda", Model: "Civic", PlateNumber: "MH12AB1234"}}},
		{ID: "C2", Name: "Anita Shah", Phone: "9123456780", Status: entities.CustomerStageWaiting},
		{ID: "C3", Name: "John Doe", Phone: "9000000000", Status: "Archived"},
	}
}

func TestCustomerUseCase_Funnel(t *testing.T) {
	f := newFixture(t)
	RegisterFetchers(f.cache, f.remote)
	f.remote.EXPECT().List(gomock.Any(), interfaces.CollectionCustomers, gomock.Nil(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, out any) error {
			*out.(*[]entities.Customer) = customers()
			return nil
		}).Times(2)

	uc := NewCustomerUseCase(f.coord)
	uc.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }

	funnel, err := uc.Funnel(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []int{}
	for _, col := range funnel.Columns {
		got = append(got, col.Count)
	}
	if diff := cmp.Diff([]int{2, 0, 1, 0}, got); diff != "" {
		t.Fatalf("unexpected column counts (-want +got):\n%s", diff)
	}
	if funnel.Columns[0].Stage.Label != "Inquired" {
		t.Fatalf("expected Inquired first, got %+v", funnel.Columns[0].Stage)
	}

	found, err := uc.ListCustomers(context.Background(), "civic")
	if err != nil || len(found) != 1 || found[0].ID != "C1" {
		t.Fatalf("expected vehicle search to find C1, got %+v err=%v", found, err)
	}
}

func TestCustomerUseCase_Details(t *testing.T) {
	f := newFixture(t)
	f.cache.SetQueryData(customersKey(""), customers())
	f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1(), j2()})
	uc := NewCustomerUseCase(f.coord)

	d, err := uc.Details(context.Background(), "C1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Jobs) != 1 || d.Jobs[0].ID != "J1" {
		t.Fatalf("unexpected history: %+v", d.Jobs)
	}
	if _, err := uc.Details(context.Background(), "C9"); !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestCustomerUseCase_RegisterCustomer(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCustomerUseCase(f.coord)
		cases := map[string]struct {
			in   NewCustomer
			want error
		}{
			"missing name": {NewCustomer{Phone: "9876543210"}, ErrInvalidCustomer},
			"short phone":  {NewCustomer{Name: "A", Phone: "98765"}, ErrInvalidPhone},
			"bad email":    {NewCustomer{Name: "A", Phone: "98765-43210", Email: "a@b"}, ErrInvalidEmail},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := uc.RegisterCustomer(context.Background(), tc.in); !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("creates with Inquired status", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(customersKey(""), customers())
		uc := NewCustomerUseCase(f.coord)

		f.remote.EXPECT().Create(gomock.Any(), interfaces.CollectionCustomers, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, payload any, out any) error {
				c := payload.(entities.Customer)
				if c.Status != entities.CustomerStageInquired {
					t.Fatalf("expected Inquired, got %s", c.Status)
				}
				c.ID = "C4"
				*out.(*entities.Customer) = c
				return nil
			})

		created, err := uc.RegisterCustomer(context.Background(), NewCustomer{Name: " Meera ", Phone: "(987) 654-3210"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "C4" || created.Name != "Meera" {
			t.Fatalf("unexpected customer: %+v", created)
		}
		st, _ := f.cache.State(customersKey(""))
		if st.Invalidations != 1 {
			t.Fatalf("expected customers invalidated, got %+v", st)
		}
	})
}

func TestCustomerUseCase_TransitionCustomerStage(t *testing.T) {
	t.Run("free assignment backwards", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(customersKey(""), customers())
		uc := NewCustomerUseCase(f.coord)
		f.remote.EXPECT().Update(gomock.Any(), interfaces.CollectionCustomers, "C2", map[string]any{"status": "Inquired"}, gomock.Any()).Return(nil)

		res, err := uc.TransitionCustomerStage(context.Background(), "C2", "Inquired")
		if err != nil || res.Outcome != OutcomeSucceeded {
			t.Fatalf("unexpected result %+v err=%v", res, err)
		}
		if n := f.notifier.last(t); n.Title != "Customer status updated successfully" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("failure restores the status", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(customersKey(""), customers())
		uc := NewCustomerUseCase(f.coord)
		f.remote.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("503"))

		_, err := uc.TransitionCustomerStage(context.Background(), "C1", "Completed")
		if err == nil {
			t.Fatalf("expected error")
		}
		data, _ := f.cache.GetQueryData(customersKey(""))
		if diff := cmp.Diff(customers(), data.([]entities.Customer)); diff != "" {
			t.Fatalf("rollback mismatch (-want +got):\n%s", diff)
		}
		if n := f.notifier.last(t); n.Title != DefaultFailureMessage {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		f := newFixture(t)
		uc := NewCustomerUseCase(f.coord)
		if _, err := uc.TransitionCustomerStage(context.Background(), "C1", "Lost"); !errors.Is(err, ErrInvalidStage) {
			t.Fatalf("expected ErrInvalidStage, got %v", err)
		}
	})
}
