package booking

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

type SessionType string

const (
	SessionOnline  SessionType = "ONLINE"
	SessionOffline SessionType = "OFFLINE"
)

type PaymentMode string

const (
	PaymentUPI  PaymentMode = "UPI"
	PaymentCash PaymentMode = "CASH"
)

const DefaultDurationMinutes = 60

// SessionSlot is one bookable unit of capacity. StartAt is unique across
// slots, which is the (date, time) uniqueness the schema enforces.
type SessionSlot struct {
	ID          int64
	StartAt     time.Time
	IsAvailable bool
	CreatedAt   time.Time
}

type Appointment struct {
	ID               int64
	FullName         string
	Email            string
	Phone            string
	SlotID           int64
	BookedOn         time.Time
	SessionType      SessionType
	DurationMinutes  int
	FirstSession     bool
	Status           Status
	PaymentMode      PaymentMode
	UPIID            string
	PaymentConfirmed bool
	LocationDetails  string
	AddToCalendar    bool
	CalendarLink     *string
	ExternalRef      *string
}

// Duration returns the session length, defaulting to an hour.
func (a *Appointment) Duration() time.Duration {
	minutes := a.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Active reports whether the appointment still occupies its slot.
func (a *Appointment) Active() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

type AppointmentDetail struct {
	Appointment
	Slot *SessionSlot
}

// Caller is the identity the session collaborator forwards with a request.
type Caller struct {
	Email string
	Admin bool
}

// RefundDetails are accepted on cancellation and deliberately not processed;
// refunds are owned by a payment collaborator that does not exist yet.
type RefundDetails struct {
	AccountName   string
	AccountNumber string
	IFSC          string
}
