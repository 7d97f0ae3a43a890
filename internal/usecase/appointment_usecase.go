package usecase

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase/interfaces"
)

const dateLayout = "2006-01-02"

// TimeSlots is the daily booking grid: mornings 09:00-12:30 and afternoons
// 14:00-18:00, every 30 minutes.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
}

func isTimeSlot(s string) bool {
	for _, slot := range TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// FormatSlot renders "14:30" as "2:30 PM". Malformed input is returned as is.
func FormatSlot(slot string) string {
	parts := strings.Split(slot, ":")
	if len(parts) != 2 {
		return slot
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return slot
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%s %s", h12, parts[1], suffix)
}

// IAppointmentUseCase exposes appointment booking.
type IAppointmentUseCase interface {
	ListAppointments(ctx context.Context, search string) ([]entities.Appointment, error)
	Slots(ctx context.Context, date string) ([]Slot, error)
	BookAppointment(ctx context.Context, in NewAppointment) (entities.Appointment, error)
	TransitionAppointment(ctx context.Context, id string, status string) (MutationResult[entities.Appointment], error)
}

type AppointmentUseCase struct {
	coord *MutationCoordinator
	now   func() time.Time
}

var _ IAppointmentUseCase = (*AppointmentUseCase)(nil)

func NewAppointmentUseCase(coord *MutationCoordinator) *AppointmentUseCase {
	return &AppointmentUseCase{coord: coord, now: time.Now}
}

func appointmentID(a entities.Appointment) string { return a.ID }

type Slot struct {
	Time   string `json:"time"`
	Label  string `json:"label"`
	Booked bool   `json:"booked"`
}

type NewAppointment struct {
	CustomerName  string `validate:"required"`
	CustomerPhone string `validate:"phone10"`
	CustomerEmail string `validate:"contact_email"`
	VehicleInfo   string `validate:"required"`
	ServiceType   string `validate:"required"`
	Date          string `validate:"required"`
	TimeSlot      string `validate:"required"`
	Notes         string `validate:"-"`
}

func (u *AppointmentUseCase) ListAppointments(ctx context.Context, search string) ([]entities.Appointment, error) {
	return fetchAs[[]entities.Appointment](ctx, u.coord.cache, appointmentsKey(search))
}

func (u *AppointmentUseCase) Slots(ctx context.Context, date string) ([]Slot, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	appointments, err := u.ListAppointments(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]Slot, 0, len(TimeSlots))
	for _, t := range TimeSlots {
		out = append(out, Slot{Time: t, Label: FormatSlot(t), Booked: slotBooked(appointments, date, t)})
	}
	return out, nil
}

func slotBooked(appointments []entities.Appointment, date, slot string) bool {
	for _, a := range appointments {
		if a.Occupies(date, slot) {
			return true
		}
	}
	return false
}

func (u *AppointmentUseCase) BookAppointment(ctx context.Context, in NewAppointment) (entities.Appointment, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.Date = strings.TrimSpace(in.Date)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)

	if err := u.checkBooking(ctx, in); err != nil {
		log.Printf("[appointment][usecase] booking rejected date=%s slot=%s err=%v", in.Date, in.TimeSlot, err)
		u.coord.reportFailure(ctx, "Failed to book appointment", validationError(err))
		return entities.Appointment{}, err
	}

	a := entities.Appointment{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		VehicleInfo:   strings.TrimSpace(in.VehicleInfo),
		ServiceType:   strings.TrimSpace(in.ServiceType),
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Status:        entities.AppointmentScheduled,
		Notes:         in.Notes,
		CreatedAt:     u.now().UTC(),
	}
	var created entities.Appointment
	if err := u.coord.remote.Create(ctx, interfaces.CollectionAppointments, a, &created); err != nil {
		log.Printf("[appointment][usecase] booking failed date=%s slot=%s err=%v", a.Date, a.TimeSlot, err)
		u.coord.reportFailure(ctx, "Failed to book appointment", err)
		return entities.Appointment{}, &MutationError{Kind: MutationErrorRemote, Message: userMessage(err), Err: err}
	}
	if created.ID == "" {
		created = a
	}
	u.coord.invalidate(ctx, "appointment", interfaces.CollectionAppointments)
	u.coord.notify(ctx, entities.Notification{Title: "Appointment booked successfully"})
	log.Printf("[appointment][usecase] booked id=%s date=%s slot=%s", created.ID, created.Date, created.TimeSlot)
	return created, nil
}

func (u *AppointmentUseCase) checkBooking(ctx context.Context, in NewAppointment) error {
	if err := validateInput(in, ErrInvalidAppointment); err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}
	if !isTimeSlot(in.TimeSlot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, in.TimeSlot)
	}
	appointments, err := u.ListAppointments(ctx, "")
	if err != nil {
		return err
	}
	if slotBooked(appointments, in.Date, in.TimeSlot) {
		return fmt.Errorf("%w: %s %s", ErrSlotTaken, in.Date, FormatSlot(in.TimeSlot))
	}
	return nil
}

func (u *AppointmentUseCase) TransitionAppointment(ctx context.Context, id string, raw string) (MutationResult[entities.Appointment], error) {
	status, err := entities.ParseAppointmentStatus(raw)
	if err != nil {
		return rejectMutation[entities.Appointment](ctx, u.coord, interfaces.CollectionAppointments, fmt.Errorf("%w: %q", ErrInvalidStage, raw))
	}
	return runMutation(ctx, u.coord, mutation[entities.Appointment]{
		Collection: interfaces.CollectionAppointments,
		ID:         id,
		View:       appointmentsKey(""),
		IDOf:       appointmentID,
		Check: func(cur entities.Appointment) error {
			return checkAppointmentTransition(cur.ResolvedStatus(), status)
		},
		Apply: func(cur entities.Appointment) entities.Appointment {
			cur.Status = status
			return cur
		},
		Payload: map[string]any{"status": string(status)},
		Success: entities.Notification{Title: "Status updated"},
	})
}
