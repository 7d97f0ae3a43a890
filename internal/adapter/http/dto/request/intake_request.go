package request

import (
	"strings"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase"
)

type VehicleRequest struct {
	Make        string `json:"make"`
	Model       string `json:"model"`
	PlateNumber string `json:"plateNumber"`
	Year        int    `json:"year"`
	Color       string `json:"color"`
}

type CustomerRequest struct {
	Name        string           `json:"name" binding:"required"`
	Phone       string           `json:"phone" binding:"required"`
	Email       string           `json:"email"`
	Address     string           `json:"address"`
	Vehicles    []VehicleRequest `json:"vehicles"`
	Service     string           `json:"service"`
	ServiceCost float64          `json:"serviceCost"`
}

func (r CustomerRequest) ToCommand() usecase.NewCustomer {
	vehicles := make([]entities.Vehicle, 0, len(r.Vehicles))
	for _, v := range r.Vehicles {
		vehicles = append(vehicles, entities.Vehicle{
			Make:        strings.TrimSpace(v.Make),
			Model:       strings.TrimSpace(v.Model),
			PlateNumber: strings.TrimSpace(v.PlateNumber),
			Year:        v.Year,
			Color:       strings.TrimSpace(v.Color),
		})
	}
	return usecase.NewCustomer{
		Name:               strings.TrimSpace(r.Name),
		Phone:              strings.TrimSpace(r.Phone),
		Email:              strings.TrimSpace(r.Email),
		Address:            strings.TrimSpace(r.Address),
		Vehicles:           vehicles,
		ServiceDescription: strings.TrimSpace(r.Service),
		ServiceCost:        r.ServiceCost,
	}
}

type AppointmentRequest struct {
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
	VehicleInfo   string `json:"vehicleInfo" binding:"required"`
	ServiceType   string `json:"serviceType" binding:"required"`
	Date          string `json:"date" binding:"required"`
	TimeSlot      string `json:"timeSlot" binding:"required"`
	Notes         string `json:"notes"`
}

func (r AppointmentRequest) ToCommand() usecase.NewAppointment {
	return usecase.NewAppointment{
		CustomerName:  strings.TrimSpace(r.CustomerName),
		CustomerPhone: strings.TrimSpace(r.CustomerPhone),
		CustomerEmail: strings.TrimSpace(r.CustomerEmail),
		VehicleInfo:   strings.TrimSpace(r.VehicleInfo),
		ServiceType:   strings.TrimSpace(r.ServiceType),
		Date:          strings.TrimSpace(r.Date),
		TimeSlot:      strings.TrimSpace(r.TimeSlot),
		Notes:         strings.TrimSpace(r.Notes),
	}
}

type PriceInquiryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	Email        string  `json:"email"`
	Service      string  `json:"service" binding:"required"`
	PriceOffered float64 `json:"priceOffered"`
	PriceStated  float64 `json:"priceStated"`
	Notes        string  `json:"notes"`
}

func (r PriceInquiryRequest) ToCommand() usecase.NewPriceInquiry {
	return usecase.NewPriceInquiry{
		Name:         strings.TrimSpace(r.Name),
		Phone:        strings.TrimSpace(r.Phone),
		Email:        strings.TrimSpace(r.Email),
		Service:      strings.TrimSpace(r.Service),
		PriceOffered: r.PriceOffered,
		PriceStated:  r.PriceStated,
		Notes:        strings.TrimSpace(r.Notes),
	}
}
