package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"
)

// ICustomerUseCase exposes customer intake and the sales funnel.
type ICustomerUseCase interface {
	ListCustomers(ctx context.Context, search string) ([]entities.Customer, error)
	Funnel(ctx context.Context, search string) (Funnel, error)
	Details(ctx context.Context, id string) (CustomerDetails, error)
	RegisterCustomer(ctx context.Context, in NewCustomer) (entities.Customer, error)
	TransitionCustomerStage(ctx context.Context, id string, stage string) (MutationResult[entities.Customer], error)
}

type CustomerUseCase struct {
	coord *MutationCoordinator
	now   func() time.Time
}

var _ ICustomerUseCase = (*CustomerUseCase)(nil)

func NewCustomerUseCase(coord *MutationCoordinator) *CustomerUseCase {
	return &CustomerUseCase{coord: coord, now: time.Now}
}

func customerID(c entities.Customer) string { return c.ID }

type NewCustomer struct {
	Name               string             `validate:"required"`
	Phone              string             `validate:"phone10"`
	Email              string             `validate:"contact_email"`
	Address            string             `validate:"-"`
	Vehicles           []entities.Vehicle `validate:"-"`
	ServiceDescription string             `validate:"-"`
	ServiceCost        float64            `validate:"gte=0"`
}

type FunnelCard struct {
	Customer   entities.Customer `json:"customer"`
	CreatedAgo string            `json:"createdAgo"`
}

type FunnelColumn struct {
	Stage entities.StageMeta `json:"stage"`
	Count int                `json:"count"`
	Cards []FunnelCard       `json:"cards"`
}

type Funnel struct {
	Total   int            `json:"total"`
	Columns []FunnelColumn `json:"columns"`
}

type CustomerDetails struct {
	Customer entities.Customer `json:"customer"`
	Jobs     []entities.Job    `json:"jobs"`
}

func (u *CustomerUseCase) ListCustomers(ctx context.Context, search string) ([]entities.Customer, error) {
	return fetchAs[[]entities.Customer](ctx, u.coord.cache, customersKey(search))
}

func (u *CustomerUseCase) Funnel(ctx context.Context, search string) (Funnel, error) {
	customers, err := u.ListCustomers(ctx, search)
	if err != nil {
		return Funnel{}, err
	}
	now := u.now()
	f := Funnel{Total: len(customers)}
	for _, stage := range entities.CustomerStages() {
		col := FunnelColumn{Stage: stage.Meta(), Cards: []FunnelCard{}}
		for _, c := range customers {
			if c.Stage() == stage {
				col.Cards = append(col.Cards, FunnelCard{Customer: c, CreatedAgo: c.CreatedAgo(now)})
			}
		}
		col.Count = len(col.Cards)
		f.Columns = append(f.Columns, col)
	}
	return f, nil
}

func (u *CustomerUseCase) Details(ctx context.Context, id string) (CustomerDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CustomerDetails{}, ErrInvalidID
	}
	customers, err := u.ListCustomers(ctx, "")
	if err != nil {
		return CustomerDetails{}, err
	}
	var found *entities.Customer
	for i := range customers {
		if customers[i].ID == id {
			found = &customers[i]
			break
		}
	}
	if found == nil {
		return CustomerDetails{}, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	jobs, err := fetchAs[[]entities.Job](ctx, u.coord.cache, jobsKey(JobFilter{}))
	if err != nil {
		return CustomerDetails{}, err
	}
	history := []entities.Job{}
	for _, j := range jobs {
		if j.CustomerID == id {
			history = append(history, j)
		}
	}
	return CustomerDetails{Customer: *found, Jobs: history}, nil
}

func (u *CustomerUseCase) RegisterCustomer(ctx context.Context, in NewCustomer) (entities.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in, ErrInvalidCustomer); err != nil {
		log.Printf("[customer][usecase] register rejected err=%v", err)
		u.coord.reportFailure(ctx, "Failed to register customer", validationError(err))
		return entities.Customer{}, err
	}

	c := entities.Customer{
		Name:               in.Name,
		Phone:              in.Phone,
		Email:              in.Email,
		Address:            strings.TrimSpace(in.Address),
		Vehicles:           in.Vehicles,
		Status:             entities.CustomerStageInquired,
		ServiceDescription: in.ServiceDescription,
		ServiceCost:        in.ServiceCost,
		CreatedAt:          u.now().UTC(),
	}
	var created entities.Customer
	if err := u.coord.remote.Create(ctx, interfaces.CollectionCustomers, c, &created); err != nil {
		log.Printf("[customer][usecase] register failed name=%q err=%v", c.Name, err)
		u.coord.reportFailure(ctx, "Failed to register customer", err)
		return entities.Customer{}, &MutationError{Kind: MutationErrorRemote, Message: userMessage(err), Err: err}
	}
	if created.ID == "" {
		created = c
	}
	u.coord.invalidate(ctx, "customer", interfaces.CollectionCustomers)
	u.coord.notify(ctx, entities.Notification{Title: "Customer registered successfully"})
	log.Printf("[customer][usecase] registered id=%s", created.ID)
	return created, nil
}

func (u *CustomerUseCase) TransitionCustomerStage(ctx context.Context, id string, raw string) (MutationResult[entities.Customer], error) {
	stage, err := entities.ParseCustomerStage(raw)
	if err != nil {
		return rejectMutation[entities.Customer](ctx, u.coord, interfaces.CollectionCustomers, fmt.Errorf("%w: %q", ErrInvalidStage, raw))
	}
	return runMutation(ctx, u.coord, mutation[entities.Customer]{
		Collection: interfaces.CollectionCustomers,
		ID:         id,
		View:       customersKey(""),
		IDOf:       customerID,
		Apply: func(cur entities.Customer) entities.Customer {
			cur.Status = stage
			return cur
		},
		Payload: map[string]any{"status": string(stage)},
		Success: entities.Notification{Title: "Customer status updated successfully"},
	})
}
