package response

import (
	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase"
)

type MutationResponse struct {
	Outcome      string                `json:"outcome"`
	Entity       any                   `json:"entity"`
	Notification entities.Notification `json:"notification"`
	Invalidated  []string              `json:"invalidated"`
}

func FromMutation[E any](r usecase.MutationResult[E]) MutationResponse {
	invalidated := r.Invalidated
	if invalidated == nil {
		invalidated = []string{}
	}
	return MutationResponse{
		Outcome:      string(r.Outcome),
		Entity:       r.Entity,
		Notification: r.Notification,
		Invalidated:  invalidated,
	}
}

// StagesResponse lists the stage tables clients render funnels and badges from.
type StagesResponse struct {
	Jobs         []entities.StageMeta `json:"jobs"`
	Customers    []entities.StageMeta `json:"customers"`
	Appointments []entities.StageMeta `json:"appointments"`
}

func Stages() StagesResponse {
	res := StagesResponse{}
	for _, s := range entities.JobStages() {
		res.Jobs = append(res.Jobs, s.Meta())
	}
	for _, s := range entities.CustomerStages() {
		res.Customers = append(res.Customers, s.Meta())
	}
	for _, s := range entities.AppointmentStatuses() {
		res.Appointments = append(res.Appointments, s.Meta())
	}
	return res
}
