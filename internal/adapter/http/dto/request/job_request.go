package request

import (
	"strings"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase"
)

type StageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ServiceItemRequest struct {
	Name             string  `json:"name" binding:"required"`
	Price            float64 `json:"price"`
	AssignedBusiness string  `json:"assignedBusiness"`
}

// CompleteJobRequest carries the business assignment of every service item.
// Discount is optional; when absent the job keeps its current discount.
type CompleteJobRequest struct {
	ServiceItems []ServiceItemRequest `json:"serviceItems" binding:"required,min=1,dive"`
	Discount     *float64             `json:"discount"`
}

func (r CompleteJobRequest) ToCommand() usecase.CompletionRequest {
	items := make([]entities.ServiceItem, 0, len(r.ServiceItems))
	for _, it := range r.ServiceItems {
		items = append(items, entities.ServiceItem{
			Name:             strings.TrimSpace(it.Name),
			Price:            it.Price,
			AssignedBusiness: strings.TrimSpace(it.AssignedBusiness),
		})
	}
	return usecase.CompletionRequest{Items: items, Discount: r.Discount}
}

type JobQuery struct {
	Search string `form:"search" binding:"max=100"`
	Stage  string `form:"stage" binding:"max=40"`
}

func (q JobQuery) ToFilter() usecase.JobFilter {
	return usecase.JobFilter{Search: strings.TrimSpace(q.Search), Stage: strings.TrimSpace(q.Stage)}
}
