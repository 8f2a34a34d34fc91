package booking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSlotNotFound        = errors.New("slot not found")
	ErrSlotUnavailable     = errors.New("slot is not available")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	CreateSlot(ctx context.Context, startAt time.Time) (*SessionSlot, error)
	GetSlotByID(ctx context.Context, id int64) (*SessionSlot, error)
	ListAvailableSlots(ctx context.Context, from, to time.Time) ([]SessionSlot, error)

	// LockSlot flips is_available to false and fails with ErrSlotUnavailable
	// when the slot is already locked. ReleaseSlot flips it back to true and
	// is idempotent.
	LockSlot(ctx context.Context, id int64) error
	ReleaseSlot(ctx context.Context, id int64) error

	CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error)

	// MarkConfirmed moves PENDING to CONFIRMED and sets payment_confirmed.
	// MarkCancelled moves any non-cancelled status to CANCELLED.
	MarkConfirmed(ctx context.Context, id int64) (*Appointment, error)
	MarkCancelled(ctx context.Context, id int64) (*Appointment, error)

	UpdateAppointmentSlot(ctx context.Context, id, newSlotID int64) (*Appointment, error)
	SetCalendarLink(ctx context.Context, id int64, link string) error

	ListAllAppointments(ctx context.Context) ([]AppointmentDetail, error)
	ListAppointmentsByEmail(ctx context.Context, email string) ([]AppointmentDetail, error)

	// Dashboard reads
	CountCompletedSessions(ctx context.Context, email string, now time.Time) (int, error)
	ListUpcomingAppointments(ctx context.Context, email string, today time.Time, limit int) ([]AppointmentDetail, error)

	// Reminder worker
	ListActiveAppointmentsBetween(ctx context.Context, from, to time.Time) ([]AppointmentDetail, error)
}
