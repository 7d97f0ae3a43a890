package entities

import (
	"errors"
	"strings"
)

var ErrUnknownStage = errors.New("unknown stage")

// DefaultStageColor is the styling used for values outside the known tables.
const DefaultStageColor = "gray"

// StageMeta is the presentation metadata of a stage.
//
// Domain notes:
//   - Phase is the 1-based position of the stage in its funnel ("PHASE 1", "PHASE 2"...).
//   - Terminal stages accept no further transition.
type StageMeta struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Phase    int    `json:"phase"`
	Terminal bool   `json:"terminal"`
}

type stageTable []StageMeta

func (t stageTable) lookup(raw string) (StageMeta, bool) {
	for _, m := range t {
		if m.Key == raw {
			return m, true
		}
	}
	return StageMeta{}, false
}

// meta falls through to default styling for unknown keys.
func (t stageTable) meta(raw string) StageMeta {
	if m, ok := t.lookup(raw); ok {
		return m
	}
	return StageMeta{Key: raw, Label: raw, Color: DefaultStageColor}
}

func (t stageTable) keys() []string {
	out := make([]string, 0, len(t))
	for _, m := range t {
		out = append(out, m.Key)
	}
	return out
}

// CustomerStage is a customer's position in the sales funnel.
//
// The funnel is non-linear: staff may move a customer to any stage at any time.
type CustomerStage string

const (
	CustomerStageInquired  CustomerStage = "Inquired"
	CustomerStageWorking   CustomerStage = "Working"
	CustomerStageWaiting   CustomerStage = "Waiting"
	CustomerStageCompleted CustomerStage = "Completed"
)

var customerStages = stageTable{
	{Key: string(CustomerStageInquired), Label: "Inquired", Color: "blue", Phase: 1},
	{Key: string(CustomerStageWorking), Label: "Working", Color: "orange", Phase: 2},
	{Key: string(CustomerStageWaiting), Label: "Waiting", Color: "yellow", Phase: 3},
	{Key: string(CustomerStageCompleted), Label: "Completed", Color: "green", Phase: 4},
}

// CustomerStages returns the funnel stages in display order.
func CustomerStages() []CustomerStage {
	out := make([]CustomerStage, 0, len(customerStages))
	for _, k := range customerStages.keys() {
		out = append(out, CustomerStage(k))
	}
	return out
}

func ParseCustomerStage(raw string) (CustomerStage, error) {
	if _, ok := customerStages.lookup(strings.TrimSpace(raw)); !ok {
		return "", ErrUnknownStage
	}
	return CustomerStage(strings.TrimSpace(raw)), nil
}

// ResolveCustomerStage maps a raw status field to a stage, defaulting to Inquired.
func ResolveCustomerStage(raw string) CustomerStage {
	if s, err := ParseCustomerStage(raw); err == nil {
		return s
	}
	return CustomerStageInquired
}

func (s CustomerStage) Meta() StageMeta { return customerStages.meta(string(s)) }
func (s CustomerStage) IsTerminal() bool { return s.Meta().Terminal }

// JobStage is the lifecycle stage of a service job.
//
// Domain notes:
//   - Completed and Cancelled are terminal: once reached, the job is immutable.
//   - Reaching Completed triggers server-side invoice generation.
type JobStage string

const (
	JobStageNewLead        JobStage = "New Lead"
	JobStageInspectionDone JobStage = "Inspection Done"
	JobStageWorkInProgress JobStage = "Work In Progress"
	JobStageCompleted      JobStage = "Completed"
	JobStageCancelled      JobStage = "Cancelled"
)

var jobStages = stageTable{
	{Key: string(JobStageNewLead), Label: "New Lead", Color: "blue", Phase: 1},
	{Key: string(JobStageInspectionDone), Label: "Inspection Done", Color: "yellow", Phase: 2},
	{Key: string(JobStageWorkInProgress), Label: "Work In Progress", Color: "orange", Phase: 3},
	{Key: string(JobStageCompleted), Label: "Completed", Color: "emerald", Phase: 4, Terminal: true},
	{Key: string(JobStageCancelled), Label: "Cancelled", Color: "red", Phase: 5, Terminal: true},
}

func JobStages() []JobStage {
	out := make([]JobStage, 0, len(jobStages))
	for _, k := range jobStages.keys() {
		out = append(out, JobStage(k))
	}
	return out
}

func ParseJobStage(raw string) (JobStage, error) {
	if _, ok := jobStages.lookup(strings.TrimSpace(raw)); !ok {
		return "", ErrUnknownStage
	}
	return JobStage(strings.TrimSpace(raw)), nil
}

// ResolveJobStage maps a raw stage field to a stage, defaulting to New Lead.
func ResolveJobStage(raw string) JobStage {
	if s, err := ParseJobStage(raw); err == nil {
		return s
	}
	return JobStageNewLead
}

func (s JobStage) Meta() StageMeta { return jobStages.meta(string(s)) }
func (s JobStage) IsTerminal() bool { return s.Meta().Terminal }

// AppointmentStatus is the booking state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentConverted AppointmentStatus = "Converted"
)

var appointmentStatuses = stageTable{
	{Key: string(AppointmentScheduled), Label: "Scheduled", Color: "blue", Phase: 1},
	{Key: string(AppointmentConfirmed), Label: "Confirmed", Color: "green", Phase: 2},
	{Key: string(AppointmentCancelled), Label: "Cancelled", Color: "red", Phase: 3, Terminal: true},
	{Key: string(AppointmentConverted), Label: "Converted", Color: "purple", Phase: 4, Terminal: true},
}

func AppointmentStatuses() []AppointmentStatus {
	out := make([]AppointmentStatus, 0, len(appointmentStatuses))
	for _, k := range appointmentStatuses.keys() {
		out = append(out, AppointmentStatus(k))
	}
	return out
}

func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	if _, ok := appointmentStatuses.lookup(strings.TrimSpace(raw)); !ok {
		return "", ErrUnknownStage
	}
	return AppointmentStatus(strings.TrimSpace(raw)), nil
}

func ResolveAppointmentStatus(raw string) AppointmentStatus {
	if s, err := ParseAppointmentStatus(raw); err == nil {
		return s
	}
	return AppointmentScheduled
}

func (s AppointmentStatus) Meta() StageMeta { return appointmentStatuses.meta(string(s)) }
func (s AppointmentStatus) IsTerminal() bool { return s.Meta().Terminal }

// PaymentStatus is the settlement state of a job.
type PaymentStatus string

const (
	PaymentPaid          PaymentStatus = "Paid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPending       PaymentStatus = "Pending"
)

var paymentStatuses = stageTable{
	{Key: string(PaymentPaid), Label: "Paid", Color: "green", Phase: 1},
	{Key: string(PaymentPartiallyPaid), Label: "Partially Paid", Color: "yellow", Phase: 2},
	{Key: string(PaymentPending), Label: "Pending", Color: "red", Phase: 3},
}

func (s PaymentStatus) Meta() StageMeta { return paymentStatuses.meta(string(s)) }
