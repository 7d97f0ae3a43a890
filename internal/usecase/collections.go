package usecase

import (
	"context"
	"fmt"
	"strings"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/infrastructure/cache"
	"garage_crm/internal/usecase/interfaces"
)

// StageAll selects every stage in a job view.
const StageAll = "all"

type JobFilter struct {
	Search string
	Stage  string
}

func (f JobFilter) normalized() JobFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.Stage = strings.TrimSpace(f.Stage)
	if f.Stage == "" {
		f.Stage = StageAll
	}
	return f
}

func jobsKey(f JobFilter) cache.QueryKey {
	f = f.normalized()
	return cache.Key(interfaces.CollectionJobs, f.Search, f.Stage)
}

func customersKey(search string) cache.QueryKey {
	return cache.Key(interfaces.CollectionCustomers, strings.TrimSpace(search))
}

func appointmentsKey(search string) cache.QueryKey {
	return cache.Key(interfaces.CollectionAppointments, strings.TrimSpace(search))
}

func collectionKey(collection string) cache.QueryKey {
	return cache.Key(collection)
}

// RegisterFetchers wires every collection the CRM reads to the remote store.
// Each cached view holds the already filtered rows for its key.
func RegisterFetchers(c *cache.QueryClient, remote interfaces.IRemoteStore) {
	c.Register(interfaces.CollectionJobs, func(ctx context.Context, key cache.QueryKey) (any, error) {
		f := JobFilter{Search: segment(key, 1), Stage: segment(key, 2)}.normalized()
		filters := map[string]string{}
		if f.Stage != StageAll {
			filters["stage"] = f.Stage
		}
		if f.Search != "" {
			filters["search"] = f.Search
		}
		var jobs []entities.Job
		if err := remote.List(ctx, interfaces.CollectionJobs, filters, &jobs); err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		return filterJobs(jobs, f), nil
	})

	c.Register(interfaces.CollectionCustomers, func(ctx context.Context, key cache.QueryKey) (any, error) {
		var customers []entities.Customer
		if err := remote.List(ctx, interfaces.CollectionCustomers, nil, &customers); err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		return filterCustomers(customers, segment(key, 1)), nil
	})

	c.Register(interfaces.CollectionAppointments, func(ctx context.Context, key cache.QueryKey) (any, error) {
		var appointments []entities.Appointment
		if err := remote.List(ctx, interfaces.CollectionAppointments, nil, &appointments); err != nil {
			return nil, fmt.Errorf("list appointments: %w", err)
		}
		return filterAppointments(appointments, segment(key, 1)), nil
	})

	c.Register(interfaces.CollectionInvoices, func(ctx context.Context, _ cache.QueryKey) (any, error) {
		var invoices []entities.Invoice
		if err := remote.List(ctx, interfaces.CollectionInvoices, nil, &invoices); err != nil {
			return nil, fmt.Errorf("list invoices: %w", err)
		}
		return invoices, nil
	})

	c.Register(interfaces.CollectionTechnicians, func(ctx context.Context, _ cache.QueryKey) (any, error) {
		var technicians []entities.Technician
		if err := remote.List(ctx, interfaces.CollectionTechnicians, nil, &technicians); err != nil {
			return nil, fmt.Errorf("list technicians: %w", err)
		}
		return technicians, nil
	})

	c.Register(interfaces.CollectionPriceInquiries, func(ctx context.Context, _ cache.QueryKey) (any, error) {
		var inquiries []entities.PriceInquiry
		if err := remote.List(ctx, interfaces.CollectionPriceInquiries, nil, &inquiries); err != nil {
			return nil, fmt.Errorf("list price inquiries: %w", err)
		}
		return inquiries, nil
	})

	c.Register(interfaces.CollectionDashboard, func(ctx context.Context, _ cache.QueryKey) (any, error) {
		var summary entities.DashboardSummary
		if err := remote.List(ctx, interfaces.CollectionDashboard, nil, &summary); err != nil {
			return nil, fmt.Errorf("load dashboard: %w", err)
		}
		return summary, nil
	})
}

func segment(key cache.QueryKey, i int) string {
	if i >= len(key) {
		return ""
	}
	return key[i]
}

// fetchAs loads key and asserts the cached value type.
func fetchAs[T any](ctx context.Context, c *cache.QueryClient, key cache.QueryKey) (T, error) {
	var zero T
	data, err := c.Fetch(ctx, key)
	if err != nil {
		return zero, err
	}
	if data == nil {
		return zero, nil
	}
	v, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("cached %s holds %T", key, data)
	}
	return v, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func filterJobs(jobs []entities.Job, f JobFilter) []entities.Job {
	out := make([]entities.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Stage != StageAll && string(j.ResolvedStage()) != f.Stage {
			continue
		}
		if f.Search != "" &&
			!containsFold(j.CustomerName, f.Search) &&
			!containsFold(j.VehicleName, f.Search) &&
			!containsFold(j.PlateNumber, f.Search) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func filterCustomers(customers []entities.Customer, search string) []entities.Customer {
	search = strings.TrimSpace(search)
	if search == "" {
		return customers
	}
	out := make([]entities.Customer, 0, len(customers))
	for _, c := range customers {
		if containsFold(c.Name, search) || strings.Contains(c.Phone, search) || vehicleMatches(c.Vehicles, search) {
			out = append(out, c)
		}
	}
	return out
}

func vehicleMatches(vehicles []entities.Vehicle, search string) bool {
	for _, v := range vehicles {
		if containsFold(v.Make, search) || containsFold(v.Model, search) || containsFold(v.PlateNumber, search) {
			return true
		}
	}
	return false
}

func filterAppointments(appointments []entities.Appointment, search string) []entities.Appointment {
	search = strings.TrimSpace(search)
	if search == "" {
		return appointments
	}
	out := make([]entities.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if containsFold(a.CustomerName, search) || strings.Contains(a.CustomerPhone, search) || containsFold(a.VehicleInfo, search) {
			out = append(out, a)
		}
	}
	return out
}
