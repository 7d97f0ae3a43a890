package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
)

var testBusinesses = Businesses{Primary: "Auto Gamma", Names: []string{"Auto Gamma", "Business 2"}}

func TestJobUseCase_TransitionJobStage(t *testing.T) {
	t.Run("optimistic write is visible before the remote call settles", func(t *testing.T) {
		for _, stage := range []entities.JobStage{entities.JobStageNewLead, entities.JobStageInspectionDone, entities.JobStageWorkInProgress} {
			t.Run(string(stage), func(t *testing.T) {
				f := newFixture(t)
				start := j1()
				start.Stage = entities.JobStageNewLead
				if stage == entities.JobStageNewLead {
					start.Stage = entities.JobStageInspectionDone
				}
				f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{start, j2()})
				uc := NewJobUseCase(f.coord, testBusinesses)

				f.remote.EXPECT().
					Update(gomock.Any(), interfaces.CollectionJobs, "J1", map[string]any{"stage": string(stage)}, gomock.Any()).
					DoAndReturn(func(context.Context, string, string, map[string]any, any) error {
						jobs := f.cachedJobs(t, jobsKey(JobFilter{}))
						if jobs[0].Stage != stage {
							t.Fatalf("expected optimistic stage %s, got %s", stage, jobs[0].Stage)
						}
						if diff := cmp.Diff(j2(), jobs[1]); diff != "" {
							t.Fatalf("other jobs must be untouched (-want +got):\n%s", diff)
						}
						return nil
					})

				res, err := uc.TransitionJobStage(context.Background(), "J1", string(stage))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Outcome != OutcomeSucceeded || res.Entity.Stage != stage {
					t.Fatalf("unexpected result: %+v", res)
				}
				if diff := cmp.Diff([]string{interfaces.CollectionDashboard, interfaces.CollectionJobs}, res.Invalidated); diff != "" {
					t.Fatalf("unexpected invalidations (-want +got):\n%s", diff)
				}
				if n := f.notifier.last(t); n.Title != "Status updated" || n.Variant != entities.NotificationDefault {
					t.Fatalf("unexpected notification: %+v", n)
				}
			})
		}
	})

	t.Run("terminal jobs are rejected without network or cache writes", func(t *testing.T) {
		for _, terminal := range []entities.JobStage{entities.JobStageCompleted, entities.JobStageCancelled} {
			t.Run(string(terminal), func(t *testing.T) {
				f := newFixture(t)
				job := j1()
				job.Stage = terminal
				f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{job})
				before, _ := f.cache.State(jobsKey(JobFilter{}))
				uc := NewJobUseCase(f.coord, testBusinesses)

				_, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageWorkInProgress))
				if !errors.Is(err, ErrTerminalStage) {
					t.Fatalf("expected ErrTerminalStage, got %v", err)
				}
				var mErr *MutationError
				if !errors.As(err, &mErr) || mErr.Kind != MutationErrorValidation {
					t.Fatalf("expected validation MutationError, got %v", err)
				}
				after, _ := f.cache.State(jobsKey(JobFilter{}))
				if after.Version != before.Version || after.Invalidations != 0 {
					t.Fatalf("cache must not change: before=%+v after=%+v", before, after)
				}
				if n := f.notifier.last(t); n.Variant != entities.NotificationDestructive {
					t.Fatalf("expected destructive notification, got %+v", n)
				}
			})
		}
	})

	t.Run("remote failure rolls back to the snapshot", func(t *testing.T) {
		f := newFixture(t)
		all := []entities.Job{j1(), j2()}
		filtered := []entities.Job{j1()}
		f.cache.SetQueryData(jobsKey(JobFilter{}), all)
		f.cache.SetQueryData(jobsKey(JobFilter{Search: "civic"}), filtered)
		uc := NewJobUseCase(f.coord, testBusinesses)

		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", gomock.Any(), gomock.Any()).
			Return(serverError{msg: "Technician must be assigned"})

		res, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageCancelled))
		var mErr *MutationError
		if !errors.As(err, &mErr) || mErr.Kind != MutationErrorRemote || mErr.Message != "Technician must be assigned" {
			t.Fatalf("expected remote MutationError with server message, got %v", err)
		}
		if res.Outcome != OutcomeFailed {
			t.Fatalf("expected failed outcome, got %s", res.Outcome)
		}
		if diff := cmp.Diff(all, f.cachedJobs(t, jobsKey(JobFilter{}))); diff != "" {
			t.Fatalf("rollback mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(filtered, f.cachedJobs(t, jobsKey(JobFilter{Search: "civic"}))); diff != "" {
			t.Fatalf("rollback mismatch (-want +got):\n%s", diff)
		}
		st, _ := f.cache.State(jobsKey(JobFilter{}))
		if !st.Stale || st.Invalidations != 1 {
			t.Fatalf("source collection must be invalidated after failure: %+v", st)
		}
		if n := f.notifier.last(t); n.Title != "Technician must be assigned" || n.Variant != entities.NotificationDestructive {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("remote failure keeps in-flight writes to other jobs", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1(), j2()})
		uc := NewJobUseCase(f.coord, testBusinesses)

		inJ2 := make(chan struct{})
		release := make(chan struct{})
		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J2", gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, string, map[string]any, any) error {
				close(inJ2)
				<-release
				return nil
			})
		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", gomock.Any(), gomock.Any()).
			Return(serverError{msg: "Job is locked"})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.TransitionJobStage(context.Background(), "J2", string(entities.JobStageInspectionDone))
		}()
		<-inJ2

		if _, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageCancelled)); err == nil {
			t.Fatalf("expected J1 failure")
		}
		jobs := f.cachedJobs(t, jobsKey(JobFilter{}))
		if jobs[0].Stage != entities.JobStageWorkInProgress {
			t.Fatalf("expected J1 restored, got %s", jobs[0].Stage)
		}
		if jobs[1].Stage != entities.JobStageInspectionDone {
			t.Fatalf("expected J2 optimistic stage to survive, got %s", jobs[1].Stage)
		}
		close(release)
		wg.Wait()
	})

	t.Run("remote failure without message uses the default", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)
		f.remote.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("dial tcp: refused"))

		_, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageNewLead))
		var mErr *MutationError
		if !errors.As(err, &mErr) || mErr.Message != DefaultFailureMessage {
			t.Fatalf("expected default message, got %v", err)
		}
	})

	t.Run("invalid stage and unknown id", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)

		if _, err := uc.TransitionJobStage(context.Background(), "J1", "Work in progress"); !errors.Is(err, ErrInvalidStage) {
			t.Fatalf("expected ErrInvalidStage, got %v", err)
		}
		if _, err := uc.TransitionJobStage(context.Background(), "J9", string(entities.JobStageNewLead)); !errors.Is(err, ErrEntityNotFound) {
			t.Fatalf("expected ErrEntityNotFound, got %v", err)
		}
	})

	t.Run("completed requires the completion flow", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)

		if _, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageCompleted)); !errors.Is(err, ErrCompletionRequiresAssignment) {
			t.Fatalf("expected ErrCompletionRequiresAssignment, got %v", err)
		}
	})

	t.Run("failed superseded mutation keeps the newer optimistic value", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)

		inFirst := make(chan struct{})
		release := make(chan struct{})
		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", map[string]any{"stage": string(entities.JobStageInspectionDone)}, gomock.Any()).
			DoAndReturn(func(context.Context, string, string, map[string]any, any) error {
				close(inFirst)
				<-release
				return serverError{msg: "timeout"}
			})
		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", map[string]any{"stage": string(entities.JobStageNewLead)}, gomock.Any()).
			Return(nil)

		var wg sync.WaitGroup
		var first MutationResult[entities.Job]
		var firstErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, firstErr = uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageInspectionDone))
		}()
		<-inFirst

		second, err := uc.TransitionJobStage(context.Background(), "J1", string(entities.JobStageNewLead))
		if err != nil || second.Outcome != OutcomeSucceeded {
			t.Fatalf("second mutation: outcome=%s err=%v", second.Outcome, err)
		}
		close(release)
		wg.Wait()

		if firstErr != nil || first.Outcome != OutcomeSuperseded {
			t.Fatalf("first mutation: outcome=%s err=%v", first.Outcome, firstErr)
		}
		if got := f.cachedJobs(t, jobsKey(JobFilter{}))[0].Stage; got != entities.JobStageNewLead {
			t.Fatalf("expected newer optimistic stage to survive, got %s", got)
		}
	})
}

func TestJobUseCase_CompletionFlow(t *testing.T) {
	t.Run("J1 completes with per-item business assignment", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1(), j2()})
		f.cache.SetQueryData(collectionKey(interfaces.CollectionInvoices), []entities.Invoice{})
		f.cache.SetQueryData(collectionKey(interfaces.CollectionDashboard), entities.DashboardSummary{ActiveJobs: 2})
		uc := NewJobUseCase(f.coord, testBusinesses)

		draft, err := uc.PrepareCompletion(context.Background(), "J1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, it := range draft.Items {
			if it.AssignedBusiness != "Auto Gamma" {
				t.Fatalf("expected items to default to Auto Gamma, got %+v", draft.Items)
			}
		}
		if draft.Subtotal != 1700 {
			t.Fatalf("expected subtotal 1700, got %v", draft.Subtotal)
		}
		draft.Items[1].AssignedBusiness = "Business 2"

		wantItems := []entities.ServiceItem{
			{Name: "Oil change", Price: 500, AssignedBusiness: "Auto Gamma"},
			{Name: "Brake pads", Price: 1200, AssignedBusiness: "Business 2"},
		}
		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", map[string]any{
				"stage":        "Completed",
				"serviceItems": wantItems,
			}, gomock.Any()).
			Return(nil)

		res, err := uc.CompleteJob(context.Background(), "J1", CompletionRequest{Items: draft.Items})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Outcome != OutcomeSucceeded {
			t.Fatalf("unexpected outcome %s", res.Outcome)
		}
		jobs := f.cachedJobs(t, jobsKey(JobFilter{}))
		if jobs[0].Stage != entities.JobStageCompleted {
			t.Fatalf("expected J1 completed in cache, got %s", jobs[0].Stage)
		}
		if diff := cmp.Diff(wantItems, jobs[0].ServiceItems); diff != "" {
			t.Fatalf("unexpected cached items (-want +got):\n%s", diff)
		}
		for _, collection := range []string{interfaces.CollectionInvoices, interfaces.CollectionDashboard, interfaces.CollectionJobs} {
			st, ok := f.cache.State(collectionKey(collection))
			if collection == interfaces.CollectionJobs {
				st, ok = f.cache.State(jobsKey(JobFilter{}))
			}
			if !ok || !st.Stale || st.Invalidations != 1 {
				t.Fatalf("expected %s invalidated, got %+v", collection, st)
			}
		}
		if n := f.notifier.last(t); n.Description != "Invoices created successfully" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("missing tags default to the primary business", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)
		discount := 100.0

		f.remote.EXPECT().
			Update(gomock.Any(), interfaces.CollectionJobs, "J1", map[string]any{
				"stage": "Completed",
				"serviceItems": []entities.ServiceItem{
					{Name: "Oil change", Price: 500, AssignedBusiness: "Auto Gamma"},
					{Name: "Brake pads", Price: 1200, AssignedBusiness: "Auto Gamma"},
				},
				"discount": 100.0,
			}, gomock.Any()).
			Return(nil)

		_, err := uc.CompleteJob(context.Background(), "J1", CompletionRequest{Items: j1().ServiceItems, Discount: &discount})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("item count must match the job", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)

		_, err := uc.CompleteJob(context.Background(), "J1", CompletionRequest{Items: j1().ServiceItems[:1]})
		if !errors.Is(err, ErrAssignmentMismatch) {
			t.Fatalf("expected ErrAssignmentMismatch, got %v", err)
		}
	})

	t.Run("items must match the job apart from the business", func(t *testing.T) {
		cases := map[string]func([]entities.ServiceItem){
			"renamed":  func(items []entities.ServiceItem) { items[0].Name = "Full service" },
			"repriced": func(items []entities.ServiceItem) { items[1].Price = 1 },
		}
		for name, edit := range cases {
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
				uc := NewJobUseCase(f.coord, testBusinesses)
				items := j1().ServiceItems
				edit(items)

				_, err := uc.CompleteJob(context.Background(), "J1", CompletionRequest{Items: items})
				if !errors.Is(err, ErrAssignmentMismatch) {
					t.Fatalf("expected ErrAssignmentMismatch, got %v", err)
				}
				if got := f.cachedJobs(t, jobsKey(JobFilter{}))[0].Stage; got != entities.JobStageWorkInProgress {
					t.Fatalf("job must not change, got %s", got)
				}
			})
		}
	})

	t.Run("unknown business is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{j1()})
		uc := NewJobUseCase(f.coord, testBusinesses)
		items := j1().ServiceItems
		items[0].AssignedBusiness = "Other Garage"

		_, err := uc.CompleteJob(context.Background(), "J1", CompletionRequest{Items: items})
		if !errors.Is(err, ErrUnknownBusiness) {
			t.Fatalf("expected ErrUnknownBusiness, got %v", err)
		}
	})

	t.Run("terminal job has no completion form", func(t *testing.T) {
		f := newFixture(t)
		job := j1()
		job.Stage = entities.JobStageCancelled
		f.cache.SetQueryData(jobsKey(JobFilter{}), []entities.Job{job})
		uc := NewJobUseCase(f.coord, testBusinesses)

		if _, err := uc.PrepareCompletion(context.Background(), "J1"); !errors.Is(err, ErrTerminalStage) {
			t.Fatalf("expected ErrTerminalStage, got %v", err)
		}
	})
}

func TestJobUseCase_Board(t *testing.T) {
	f := newFixture(t)
	RegisterFetchers(f.cache, f.remote)
	done := j2()
	done.ID = "J3"
	done.Stage = entities.JobStageCompleted

	f.remote.EXPECT().List(gomock.Any(), interfaces.CollectionJobs, map[string]string{}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, out any) error {
			*out.(*[]entities.Job) = []entities.Job{j1(), j2(), done}
			return nil
		})
	f.remote.EXPECT().List(gomock.Any(), interfaces.CollectionInvoices, gomock.Nil(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, out any) error {
			*out.(*[]entities.Invoice) = []entities.Invoice{{ID: "I1", JobID: "J3"}}
			return nil
		})

	uc := NewJobUseCase(f.coord, testBusinesses)
	board, err := uc.Board(context.Background(), JobFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if board.Total != 3 || len(board.Columns) != 5 {
		t.Fatalf("unexpected board: total=%d columns=%d", board.Total, len(board.Columns))
	}
	wantCounts := []int{1, 0, 1, 1, 0}
	for i, col := range board.Columns {
		if col.Count != wantCounts[i] {
			t.Fatalf("column %s: expected %d cards, got %d", col.Phase, wantCounts[i], col.Count)
		}
	}
	completed := board.Columns[3].Cards[0]
	if !completed.InvoiceCreated || completed.Transitionable || len(completed.NextStages) != 0 {
		t.Fatalf("unexpected completed card: %+v", completed)
	}
	if board.Columns[0].Phase != "PHASE 1" || !board.Columns[0].Cards[0].Transitionable {
		t.Fatalf("unexpected first column: %+v", board.Columns[0])
	}

	// second read is served from cache
	if _, err := uc.ListJobs(context.Background(), JobFilter{Stage: "  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJobUseCase_ListJobsFilters(t *testing.T) {
	f := newFixture(t)
	RegisterFetchers(f.cache, f.remote)
	f.remote.EXPECT().List(gomock.Any(), interfaces.CollectionJobs, map[string]string{"search": "mh14", "stage": "New Lead"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, out any) error {
			*out.(*[]entities.Job) = []entities.Job{j1(), j2()}
			return nil
		})

	uc := NewJobUseCase(f.coord, testBusinesses)
	jobs, err := uc.ListJobs(context.Background(), JobFilter{Search: "mh14", Stage: "New Lead"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "J2" {
		t.Fatalf("expected only J2, got %+v", jobs)
	}
}

func TestFilterJobs_StagelessJobIsNewLead(t *testing.T) {
	stageless := j2()
	stageless.Stage = ""
	got := filterJobs([]entities.Job{j1(), stageless}, JobFilter{Stage: string(entities.JobStageNewLead)})
	if len(got) != 1 || got[0].ID != "J2" {
		t.Fatalf("expected the stageless job under New Lead, got %+v", got)
	}
}

func TestCheckTransitions(t *testing.T) {
	if err := checkJobTransition(entities.JobStageWorkInProgress, entities.JobStageNewLead); err != nil {
		t.Fatalf("open stages move freely: %v", err)
	}
	if err := checkJobTransition(entities.JobStageNewLead, entities.JobStageNewLead); err != nil {
		t.Fatalf("same stage is a reentry: %v", err)
	}
	if err := checkJobTransition(entities.JobStageCompleted, entities.JobStageCancelled); !errors.Is(err, ErrTerminalStage) {
		t.Fatalf("expected ErrTerminalStage, got %v", err)
	}
	if err := checkAppointmentTransition(entities.AppointmentConfirmed, entities.AppointmentScheduled); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := checkAppointmentTransition(entities.AppointmentScheduled, entities.AppointmentConverted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkAppointmentTransition(entities.AppointmentConverted, entities.AppointmentCancelled); !errors.Is(err, ErrTerminalStage) {
		t.Fatalf("expected ErrTerminalStage, got %v", err)
	}
}
