package entities

import (
	"math"
	"time"
)

// PriceInquiry logs a price a customer asked about against the price the garage offered.
//
// Domain notes:
//   - Inquiries are immutable once created; they can only be deleted.
//   - Difference and DifferencePercent are derived, never stored.
type PriceInquiry struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Service      string    `json:"service"`
	PriceOffered float64   `json:"priceOffered"`
	PriceStated  float64   `json:"priceStated"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p PriceInquiry) Difference() float64 {
	return p.PriceOffered - p.PriceStated
}

// DifferencePercent is the difference relative to the offered price, rounded to
// one decimal. It is 0 when nothing was offered.
func (p PriceInquiry) DifferencePercent() float64 {
	if p.PriceOffered == 0 {
		return 0
	}
	return math.Round(p.Difference()/p.PriceOffered*1000) / 10
}
