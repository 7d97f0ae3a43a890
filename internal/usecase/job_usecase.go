package usecase

import (
	"context"
	"fmt"
	"strings"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"
)

// Businesses lists the entities a job's service items can be invoiced to.
// Primary is the default tag for untagged items.
type Businesses struct {
	Primary string
	Names   []string
}

// resolve maps an item tag to a known business, defaulting empty tags to Primary.
func (b Businesses) resolve(tag string) (string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return b.Primary, nil
	}
	for _, n := range b.Names {
		if n == tag {
			return n, nil
		}
	}
	if tag == b.Primary {
		return tag, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBusiness, tag)
}

// IJobUseCase exposes job tracking operations.
//
// Stage changes go through the mutation coordinator. Reaching Completed is
// only possible through the completion flow:
//   - PrepareCompletion returns the assignment form, every item tagged.
//   - CompleteJob submits the stage and the tagged items as one update.
type IJobUseCase interface {
	ListJobs(ctx context.Context, filter JobFilter) ([]entities.Job, error)
	Board(ctx context.Context, filter JobFilter) (JobBoard, error)
	TransitionJobStage(ctx context.Context, id string, stage string) (MutationResult[entities.Job], error)
	PrepareCompletion(ctx context.Context, id string) (CompletionDraft, error)
	CompleteJob(ctx context.Context, id string, req CompletionRequest) (MutationResult[entities.Job], error)
	ListTechnicians(ctx context.Context) ([]entities.Technician, error)
	ListInvoices(ctx context.Context) ([]entities.Invoice, error)
	Dashboard(ctx context.Context) (entities.DashboardSummary, error)
}

type JobUseCase struct {
	coord      *MutationCoordinator
	businesses Businesses
}

var _ IJobUseCase = (*JobUseCase)(nil)

func NewJobUseCase(coord *MutationCoordinator, businesses Businesses) *JobUseCase {
	return &JobUseCase{coord: coord, businesses: businesses}
}

func jobID(j entities.Job) string { return j.ID }

type BoardCard struct {
	Job            entities.Job        `json:"job"`
	Stage          entities.StageMeta  `json:"stageMeta"`
	InvoiceCreated bool                `json:"invoiceCreated"`
	Transitionable bool                `json:"transitionable"`
	NextStages     []entities.JobStage `json:"nextStages,omitempty"`
}

type BoardColumn struct {
	Phase string             `json:"phase"`
	Stage entities.StageMeta `json:"stage"`
	Count int                `json:"count"`
	Cards []BoardCard        `json:"cards"`
}

type JobBoard struct {
	Total   int           `json:"total"`
	Columns []BoardColumn `json:"columns"`
}

// CompletionDraft is the business assignment form of a job about to complete.
type CompletionDraft struct {
	JobID      string                 `json:"jobId"`
	Items      []entities.ServiceItem `json:"serviceItems"`
	Businesses []string               `json:"businesses"`
	Primary    string                 `json:"primaryBusiness"`
	Subtotal   float64                `json:"subtotal"`
	Discount   float64                `json:"discount"`
}

type CompletionRequest struct {
	Items    []entities.ServiceItem
	Discount *float64
}

func (u *JobUseCase) ListJobs(ctx context.Context, filter JobFilter) ([]entities.Job, error) {
	return fetchAs[[]entities.Job](ctx, u.coord.cache, jobsKey(filter))
}

func (u *JobUseCase) Board(ctx context.Context, filter JobFilter) (JobBoard, error) {
	jobs, err := u.ListJobs(ctx, filter)
	if err != nil {
		return JobBoard{}, err
	}
	invoices, err := u.ListInvoices(ctx)
	if err != nil {
		return JobBoard{}, err
	}

	board := JobBoard{Total: len(jobs)}
	for _, stage := range entities.JobStages() {
		meta := stage.Meta()
		col := BoardColumn{Phase: fmt.Sprintf("PHASE %d", meta.Phase), Stage: meta, Cards: []BoardCard{}}
		for _, j := range jobs {
			if j.ResolvedStage() != stage {
				continue
			}
			col.Cards = append(col.Cards, u.card(j, invoices))
		}
		col.Count = len(col.Cards)
		board.Columns = append(board.Columns, col)
	}
	return board, nil
}

func (u *JobUseCase) card(j entities.Job, invoices []entities.Invoice) BoardCard {
	stage := j.ResolvedStage()
	c := BoardCard{
		Job:            j,
		Stage:          stage.Meta(),
		InvoiceCreated: j.HasInvoice(invoices),
		Transitionable: !stage.IsTerminal(),
	}
	if c.Transitionable {
		for _, s := range entities.JobStages() {
			if s != stage {
				c.NextStages = append(c.NextStages, s)
			}
		}
	}
	return c
}

func (u *JobUseCase) TransitionJobStage(ctx context.Context, id string, raw string) (MutationResult[entities.Job], error) {
	stage, err := entities.ParseJobStage(raw)
	if err != nil {
		return rejectMutation[entities.Job](ctx, u.coord, interfaces.CollectionJobs, fmt.Errorf("%w: %q", ErrInvalidStage, raw))
	}
	return runMutation(ctx, u.coord, mutation[entities.Job]{
		Collection: interfaces.CollectionJobs,
		ID:         id,
		View:       jobsKey(JobFilter{}),
		IDOf:       jobID,
		Check: func(cur entities.Job) error {
			if err := checkJobTransition(cur.ResolvedStage(), stage); err != nil {
				return err
			}
			if stage == entities.JobStageCompleted {
				return ErrCompletionRequiresAssignment
			}
			return nil
		},
		Apply: func(cur entities.Job) entities.Job {
			cur.Stage = stage
			return cur
		},
		Payload:   map[string]any{"stage": string(stage)},
		DependsOn: []string{interfaces.CollectionDashboard},
		Success: entities.Notification{
			Title:       "Status updated",
			Description: fmt.Sprintf("Job moved to %s", stage),
		},
	})
}

func (u *JobUseCase) PrepareCompletion(ctx context.Context, id string) (CompletionDraft, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CompletionDraft{}, ErrInvalidID
	}
	job, err := findCached(ctx, u.coord.cache, collectionKey(interfaces.CollectionJobs), jobsKey(JobFilter{}), id, jobID)
	if err != nil {
		return CompletionDraft{}, err
	}
	if err := checkJobTransition(job.ResolvedStage(), entities.JobStageCompleted); err != nil {
		return CompletionDraft{}, err
	}

	items := make([]entities.ServiceItem, len(job.ServiceItems))
	for i, it := range job.ServiceItems {
		if strings.TrimSpace(it.AssignedBusiness) == "" {
			it.AssignedBusiness = u.businesses.Primary
		}
		items[i] = it
	}
	return CompletionDraft{
		JobID:      job.ID,
		Items:      items,
		Businesses: u.businessNames(),
		Primary:    u.businesses.Primary,
		Subtotal:   job.ItemsTotal(),
		Discount:   job.Discount,
	}, nil
}

func (u *JobUseCase) CompleteJob(ctx context.Context, id string, req CompletionRequest) (MutationResult[entities.Job], error) {
	items := make([]entities.ServiceItem, len(req.Items))
	for i, it := range req.Items {
		business, err := u.businesses.resolve(it.AssignedBusiness)
		if err != nil {
			return rejectMutation[entities.Job](ctx, u.coord, interfaces.CollectionJobs, err)
		}
		it.AssignedBusiness = business
		items[i] = it
	}

	payload := map[string]any{
		"stage":        string(entities.JobStageCompleted),
		"serviceItems": items,
	}
	if req.Discount != nil {
		payload["discount"] = *req.Discount
	}

	return runMutation(ctx, u.coord, mutation[entities.Job]{
		Collection: interfaces.CollectionJobs,
		ID:         id,
		View:       jobsKey(JobFilter{}),
		IDOf:       jobID,
		Check: func(cur entities.Job) error {
			if err := checkJobTransition(cur.ResolvedStage(), entities.JobStageCompleted); err != nil {
				return err
			}
			return matchItems(cur.ServiceItems, items)
		},
		Apply: func(cur entities.Job) entities.Job {
			cur.Stage = entities.JobStageCompleted
			cur.ServiceItems = items
			if req.Discount != nil {
				cur.Discount = *req.Discount
			}
			return cur
		},
		Payload:   payload,
		DependsOn: []string{interfaces.CollectionInvoices, interfaces.CollectionDashboard},
		Success: entities.Notification{
			Title:       "Status updated",
			Description: "Invoices created successfully",
		},
	})
}

// matchItems checks that submitted lists the job's items in order. Only the
// business assignment may differ.
func matchItems(job, submitted []entities.ServiceItem) error {
	if len(submitted) != len(job) {
		return fmt.Errorf("%w: job has %d items, got %d", ErrAssignmentMismatch, len(job), len(submitted))
	}
	for i := range job {
		if strings.TrimSpace(submitted[i].Name) != strings.TrimSpace(job[i].Name) || submitted[i].Price != job[i].Price {
			return fmt.Errorf("%w: item %d is %q %.2f, got %q %.2f", ErrAssignmentMismatch, i, job[i].Name, job[i].Price, submitted[i].Name, submitted[i].Price)
		}
	}
	return nil
}

func (u *JobUseCase) businessNames() []string {
	names := []string{u.businesses.Primary}
	for _, n := range u.businesses.Names {
		if n != u.businesses.Primary {
			names = append(names, n)
		}
	}
	return names
}

func (u *JobUseCase) ListTechnicians(ctx context.Context) ([]entities.Technician, error) {
	return fetchAs[[]entities.Technician](ctx, u.coord.cache, collectionKey(interfaces.CollectionTechnicians))
}

func (u *JobUseCase) ListInvoices(ctx context.Context) ([]entities.Invoice, error) {
	return fetchAs[[]entities.Invoice](ctx, u.coord.cache, collectionKey(interfaces.CollectionInvoices))
}

func (u *JobUseCase) Dashboard(ctx context.Context) (entities.DashboardSummary, error) {
	return fetchAs[entities.DashboardSummary](ctx, u.coord.cache, collectionKey(interfaces.CollectionDashboard))
}
