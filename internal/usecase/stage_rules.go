package usecase

import (
	"fmt"

	"garage_crm/internal/domain/entities"

	"github.com/qmuntal/stateless"
)

// moveTo is the trigger that moves an entity to the given stage.
func moveTo(stage string) string { return "to:" + stage }

// checkJobTransition fires the job lifecycle machine from -> to.
//
// Open stages may move to any stage, backwards included. Completed and
// Cancelled accept no trigger at all.
func checkJobTransition(from, to entities.JobStage) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: job is %s", ErrTerminalStage, from)
	}
	machine := stateless.NewStateMachine(string(from))
	for _, s := range entities.JobStages() {
		cfg := machine.Configure(string(s))
		if s.IsTerminal() {
			continue
		}
		for _, dest := range entities.JobStages() {
			if dest == s {
				cfg.PermitReentry(moveTo(string(dest)))
				continue
			}
			cfg.Permit(moveTo(string(dest)), string(dest))
		}
	}
	if err := machine.Fire(moveTo(string(to))); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrInvalidTransition, from, to, err)
	}
	return nil
}

// checkAppointmentTransition fires the appointment machine from -> to.
func checkAppointmentTransition(from, to entities.AppointmentStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: appointment is %s", ErrTerminalStage, from)
	}
	machine := stateless.NewStateMachine(string(from))

	machine.Configure(string(entities.AppointmentScheduled)).
		PermitReentry(moveTo(string(entities.AppointmentScheduled))).
		Permit(moveTo(string(entities.AppointmentConfirmed)), string(entities.AppointmentConfirmed)).
		Permit(moveTo(string(entities.AppointmentCancelled)), string(entities.AppointmentCancelled)).
		Permit(moveTo(string(entities.AppointmentConverted)), string(entities.AppointmentConverted))

	machine.Configure(string(entities.AppointmentConfirmed)).
		PermitReentry(moveTo(string(entities.AppointmentConfirmed))).
		Permit(moveTo(string(entities.AppointmentCancelled)), string(entities.AppointmentCancelled)).
		Permit(moveTo(string(entities.AppointmentConverted)), string(entities.AppointmentConverted))

	machine.Configure(string(entities.AppointmentCancelled))
	machine.Configure(string(entities.AppointmentConverted))

	if err := machine.Fire(moveTo(string(to))); err != nil {
		return fmt.Errorf("%w: %s -> %s: %v", ErrInvalidTransition, from, to, err)
	}
	return nil
}
