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

// IPriceInquiryUseCase logs price inquiries. Inquiries are never edited.
type IPriceInquiryUseCase interface {
	ListPriceInquiries(ctx context.Context) ([]entities.PriceInquiry, error)
	CreatePriceInquiry(ctx context.Context, in NewPriceInquiry) (entities.PriceInquiry, error)
	DeletePriceInquiry(ctx context.Context, id string) error
}

type PriceInquiryUseCase struct {
	coord *MutationCoordinator
	now   func() time.Time
}

var _ IPriceInquiryUseCase = (*PriceInquiryUseCase)(nil)

func NewPriceInquiryUseCase(coord *MutationCoordinator) *PriceInquiryUseCase {
	return &PriceInquiryUseCase{coord: coord, now: time.Now}
}

type NewPriceInquiry struct {
	Name         string  `validate:"required"`
	Phone        string  `validate:"required"`
	Email        string  `validate:"contact_email"`
	Service      string  `validate:"required"`
	PriceOffered float64 `validate:"gte=0"`
	PriceStated  float64 `validate:"gte=0"`
	Notes        string  `validate:"-"`
}

func (u *PriceInquiryUseCase) ListPriceInquiries(ctx context.Context) ([]entities.PriceInquiry, error) {
	return fetchAs[[]entities.PriceInquiry](ctx, u.coord.cache, collectionKey(interfaces.CollectionPriceInquiries))
}

func (u *PriceInquiryUseCase) CreatePriceInquiry(ctx context.Context, in NewPriceInquiry) (entities.PriceInquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Service = strings.TrimSpace(in.Service)
	if err := validateInput(in, ErrInvalidPriceInquiry); err != nil {
		u.coord.reportFailure(ctx, "Failed to save inquiry", validationError(err))
		return entities.PriceInquiry{}, err
	}

	p := entities.PriceInquiry{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Service:      in.Service,
		PriceOffered: in.PriceOffered,
		PriceStated:  in.PriceStated,
		Notes:        in.Notes,
		CreatedAt:    u.now().UTC(),
	}
	var created entities.PriceInquiry
	if err := u.coord.remote.Create(ctx, interfaces.CollectionPriceInquiries, p, &created); err != nil {
		log.Printf("[price-inquiry][usecase] create failed err=%v", err)
		u.coord.reportFailure(ctx, "Failed to save inquiry", err)
		return entities.PriceInquiry{}, &MutationError{Kind: MutationErrorRemote, Message: userMessage(err), Err: err}
	}
	if created.ID == "" {
		created = p
	}
	u.coord.invalidate(ctx, "price-inquiry", interfaces.CollectionPriceInquiries)
	u.coord.notify(ctx, entities.Notification{Title: "Price inquiry saved successfully"})
	return created, nil
}

func (u *PriceInquiryUseCase) DeletePriceInquiry(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidID
	}
	if err := u.coord.remote.Delete(ctx, interfaces.CollectionPriceInquiries, id); err != nil {
		log.Printf("[price-inquiry][usecase] delete failed id=%s err=%v", id, err)
		u.coord.reportFailure(ctx, "Failed to delete inquiry", err)
		return &MutationError{Kind: MutationErrorRemote, Message: userMessage(err), Err: fmt.Errorf("delete %s: %w", id, err)}
	}
	u.coord.invalidate(ctx, "price-inquiry", interfaces.CollectionPriceInquiries)
	u.coord.notify(ctx, entities.Notification{Title: "Inquiry deleted"})
	return nil
}
