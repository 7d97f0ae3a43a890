package usecase

import (
	"context"
	"errors"
	"testing"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"

	"go.uber.org/mock/gomock"
)

func TestFormatSlot(t *testing.T) {
	cases := map[string]string{
		"09:00": "9:00 AM",
		"12:30": "12:30 PM",
		"14:30": "2:30 PM",
		"18:00": "6:00 PM",
		"bogus": "bogus",
	}
	for in, want := range cases {
		if got := FormatSlot(in); got != want {
			t.Fatalf("FormatSlot(%q): expected %q, got %q", in, want, got)
		}
	}
	if len(TimeSlots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(TimeSlots))
	}
}

func bookedDay() []entities.Appointment {
	return []entities.Appointment{
		{ID: "A1", CustomerName: "Ravi", CustomerPhone: "9876543210", Date: "2026-10-20", TimeSlot: "09:00", Status: entities.AppointmentScheduled},
		{ID: "A2", CustomerName: "Anita", CustomerPhone: "9123456780", Date: "2026-10-20", TimeSlot: "09:30", Status: entities.AppointmentCancelled},
		{ID: "A3", CustomerName: "John", CustomerPhone: "9000000000", Date: "2026-10-21", TimeSlot: "10:00", Status: entities.AppointmentConfirmed},
	}
}

func validBooking(slot string) NewAppointment {
	return NewAppointment{
		CustomerName:  "Meera",
		CustomerPhone: "98765 43210",
		VehicleInfo:   "Hyundai i20",
		ServiceType:   "General service",
		Date:          "2026-10-20",
		TimeSlot:      slot,
	}
}

func TestAppointmentUseCase_Slots(t *testing.T) {
	f := newFixture(t)
	f.cache.SetQueryData(appointmentsKey(""), bookedDay())
	uc := NewAppointmentUseCase(f.coord)

	slots, err := uc.Slots(context.Background(), "2026-10-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	booked := map[string]bool{}
	for _, s := range slots {
		if s.Booked {
			booked[s.Time] = true
		}
	}
	if len(booked) != 1 || !booked["09:00"] {
		t.Fatalf("expected only 09:00 booked, got %v", booked)
	}
	if _, err := uc.Slots(context.Background(), "20/10/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestAppointmentUseCase_BookAppointment(t *testing.T) {
	t.Run("held slot is rejected without a remote call", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)

		if _, err := uc.BookAppointment(context.Background(), validBooking("09:00")); !errors.Is(err, ErrSlotTaken) {
			t.Fatalf("expected ErrSlotTaken, got %v", err)
		}
		if n := f.notifier.last(t); n.Variant != entities.NotificationDestructive {
			t.Fatalf("expected destructive notification, got %+v", n)
		}
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)

		f.remote.EXPECT().Create(gomock.Any(), interfaces.CollectionAppointments, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, payload any, out any) error {
				a := payload.(entities.Appointment)
				if a.Status != entities.AppointmentScheduled {
					t.Fatalf("expected Scheduled, got %s", a.Status)
				}
				a.ID = "A4"
				*out.(*entities.Appointment) = a
				return nil
			})

		created, err := uc.BookAppointment(context.Background(), validBooking("09:30"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID != "A4" || created.TimeSlot != "09:30" {
			t.Fatalf("unexpected appointment: %+v", created)
		}
		if n := f.notifier.last(t); n.Title != "Appointment booked successfully" {
			t.Fatalf("unexpected notification: %+v", n)
		}
	})

	t.Run("input validation", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)

		phone := validBooking("10:00")
		phone.CustomerPhone = "12345"
		email := validBooking("10:00")
		email.CustomerEmail = "meera@"
		slot := validBooking("13:00")
		date := validBooking("10:00")
		date.Date = "tomorrow"

		cases := map[string]struct {
			in   NewAppointment
			want error
		}{
			"phone": {phone, ErrInvalidPhone},
			"email": {email, ErrInvalidEmail},
			"slot":  {slot, ErrInvalidSlot},
			"date":  {date, ErrInvalidDate},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				if _, err := uc.BookAppointment(context.Background(), tc.in); !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})
}

func TestAppointmentUseCase_TransitionAppointment(t *testing.T) {
	t.Run("scheduled to confirmed", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)
		f.remote.EXPECT().Update(gomock.Any(), interfaces.CollectionAppointments, "A1", map[string]any{"status": "Confirmed"}, gomock.Any()).Return(nil)

		res, err := uc.TransitionAppointment(context.Background(), "A1", "Confirmed")
		if err != nil || res.Entity.Status != entities.AppointmentConfirmed {
			t.Fatalf("unexpected result %+v err=%v", res, err)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)

		if _, err := uc.TransitionAppointment(context.Background(), "A2", "Scheduled"); !errors.Is(err, ErrTerminalStage) {
			t.Fatalf("expected ErrTerminalStage, got %v", err)
		}
	})

	t.Run("confirmed cannot go back", func(t *testing.T) {
		f := newFixture(t)
		f.cache.SetQueryData(appointmentsKey(""), bookedDay())
		uc := NewAppointmentUseCase(f.coord)

		if _, err := uc.TransitionAppointment(context.Background(), "A3", "Scheduled"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}
