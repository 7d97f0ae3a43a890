package response

import (
	"time"

	"garage_crm/internal/domain/entities"
)

type PriceInquiryResponse struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	Service           string    `json:"service"`
	PriceOffered      float64   `json:"priceOffered"`
	PriceStated       float64   `json:"priceStated"`
	Difference        float64   `json:"difference"`
	DifferencePercent float64   `json:"differencePercent"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func FromPriceInquiry(p entities.PriceInquiry) PriceInquiryResponse {
	return PriceInquiryResponse{
		ID:                p.ID,
		Name:              p.Name,
		Phone:             p.Phone,
		Email:             p.Email,
		Service:           p.Service,
		PriceOffered:      p.PriceOffered,
		PriceStated:       p.PriceStated,
		Difference:        p.Difference(),
		DifferencePercent: p.DifferencePercent(),
		Notes:             p.Notes,
		CreatedAt:         p.CreatedAt,
	}
}

func FromPriceInquiries(list []entities.PriceInquiry) []PriceInquiryResponse {
	out := make([]PriceInquiryResponse, 0, len(list))
	for _, p := range list {
		out = append(out, FromPriceInquiry(p))
	}
	return out
}
