package entities

import "time"

// Appointment is a booked service slot.
//
// At most one non-cancelled appointment occupies a (Date, TimeSlot) pair.
// This service enforces it when booking; the API does not.
type Appointment struct {
	ID            string            `json:"_id"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	VehicleInfo   string            `json:"vehicleInfo"`
	ServiceType   string            `json:"serviceType"`
	Date          string            `json:"date"`
	TimeSlot      string            `json:"timeSlot"`
	Status        AppointmentStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func (a Appointment) ResolvedStatus() AppointmentStatus {
	return ResolveAppointmentStatus(string(a.Status))
}

// Occupies reports whether the appointment holds the given slot.
func (a Appointment) Occupies(date, slot string) bool {
	return a.ResolvedStatus() != AppointmentCancelled && a.Date == date && a.TimeSlot == slot
}
