package entities

import (
	"fmt"
	"time"
)

type Vehicle struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber"`
	Year        int    `json:"year,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Customer is a registered garage customer.
//
// Domain notes:
//   - Status holds the raw funnel stage sent by the API; an empty or unknown value
//     is read as Inquired (see Stage).
//   - Customers are never deleted in this service.
type Customer struct {
	ID                 string        `json:"_id"`
	Name               string        `json:"name"`
	Phone              string        `json:"phone"`
	Email              string        `json:"email,omitempty"`
	Address            string        `json:"address,omitempty"`
	Vehicles           []Vehicle     `json:"vehicles,omitempty"`
	Status             CustomerStage `json:"status,omitempty"`
	ServiceDescription string        `json:"service,omitempty"`
	ServiceCost        float64       `json:"serviceCost,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}

func (c Customer) Stage() CustomerStage {
	return ResolveCustomerStage(string(c.Status))
}

func (c Customer) PrimaryVehicle() (Vehicle, bool) {
	if len(c.Vehicles) == 0 {
		return Vehicle{}, false
	}
	return c.Vehicles[0], true
}

// CreatedAgo renders the customer age the way funnel cards show it.
func (c Customer) CreatedAgo(now time.Time) string {
	created := c.CreatedAt
	if created.IsZero() {
		created = now
	}
	days := int(now.Sub(created).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
