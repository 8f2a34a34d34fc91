package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mindwellhq/wellness-booking/internal/calendar"
	"github.com/mindwellhq/wellness-booking/internal/clock"
	"github.com/mindwellhq/wellness-booking/internal/redisclient"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrSlotBusy         = errors.New("slot is currently being booked, please retry")
	ErrAlreadyCancelled = errors.New("appointment is cancelled")
	ErrForbidden        = errors.New("not allowed")
)

// icsDomainTag forms the UID suffix of exported calendar documents.
const icsDomainTag = "mindwell"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo     Repository
	locker   redisclient.SlotLocker
	calendar calendar.Port
	clock    clock.Clock
	log      *zap.Logger
}

func NewService(repo Repository, locker redisclient.SlotLocker, cal calendar.Port, clk clock.Clock, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		calendar: cal,
		clock:    clk,
		log:      log,
	}
}

// BookRequest carries the requester info and session details the
// presentation layer has collected.
type BookRequest struct {
	FullName        string
	Email           string
	Phone           string
	SlotID          int64
	SessionType     SessionType
	DurationMinutes int
	FirstSession    bool
	PaymentMode     PaymentMode
	UPIID           string
	LocationDetails string
	AddToCalendar   bool
}

func (r *BookRequest) validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if !emailPattern.MatchString(r.Email) {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, r.Email)
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	switch r.SessionType {
	case SessionOnline, SessionOffline:
	default:
		return fmt.Errorf("%w: unknown session type %q", ErrValidation, r.SessionType)
	}
	switch r.PaymentMode {
	case PaymentUPI, PaymentCash:
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrValidation, r.PaymentMode)
	}
	if r.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	return nil
}

// CreateSlot opens a new bookable slot. Operator-only; the (date, time)
// uniqueness is enforced by the store.
func (s *Service) CreateSlot(ctx context.Context, caller Caller, startAt time.Time) (*SessionSlot, error) {
	if !caller.Admin {
		return nil, ErrForbidden
	}
	if startAt.IsZero() || startAt.Before(s.clock.Now()) {
		return nil, fmt.Errorf("%w: slot start must be in the future", ErrValidation)
	}

	slot, err := s.repo.CreateSlot(ctx, startAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

// ListAvailableSlots returns open slots in [from, to) ordered by start time.
func (s *Service) ListAvailableSlots(ctx context.Context, from, to time.Time) ([]SessionSlot, error) {
	if to.IsZero() {
		to = from.AddDate(0, 3, 0)
	}
	slots, err := s.repo.ListAvailableSlots(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

// Book reserves a slot and creates a PENDING appointment. The per-slot
// Redis lock plus the guarded availability flip ensure that of two
// concurrent bookings for one slot exactly one succeeds; the other gets
// ErrSlotUnavailable or ErrSlotBusy. Calendar side effects run after the
// booking is committed and never fail it.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = DefaultDurationMinutes
	}

	slot, err := s.repo.GetSlotByID(ctx, req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("load slot: %w", err)
	}
	if !slot.IsAvailable {
		return nil, ErrSlotUnavailable
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, slot.ID, func(lockCtx context.Context) error {
		// Re-check inside the critical section; the flip itself is guarded
		// too, so a racer that slipped past the lock still loses here.
		if err := s.repo.LockSlot(lockCtx, slot.ID); err != nil {
			return err
		}

		appt, err := s.repo.CreateAppointment(lockCtx, &Appointment{
			FullName:        req.FullName,
			Email:           req.Email,
			Phone:           req.Phone,
			SlotID:          slot.ID,
			SessionType:     req.SessionType,
			DurationMinutes: req.DurationMinutes,
			FirstSession:    req.FirstSession,
			PaymentMode:     req.PaymentMode,
			UPIID:           req.UPIID,
			LocationDetails: req.LocationDetails,
			AddToCalendar:   req.AddToCalendar,
		})
		if err != nil {
			// Do not leave the slot locked with no appointment behind it.
			if relErr := s.repo.ReleaseSlot(lockCtx, slot.ID); relErr != nil {
				s.log.Error("release slot after failed booking",
					zap.Int64("slot_id", slot.ID), zap.Error(relErr))
			}
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	if created.AddToCalendar {
		s.attachCalendar(ctx, created, slot)
	}

	return created, nil
}

// attachCalendar materializes the render link and pushes the event to the
// external calendar collaborator. Failures are logged and dropped.
func (s *Service) attachCalendar(ctx context.Context, appt *Appointment, slot *SessionSlot) {
	ev := s.buildEvent(appt, slot)

	link := calendar.RenderLink(ev)
	if err := s.repo.SetCalendarLink(ctx, appt.ID, link); err != nil {
		s.log.Warn("store calendar link", zap.Int64("appointment_id", appt.ID), zap.Error(err))
	} else {
		appt.CalendarLink = &link
	}

	if err := s.calendar.InsertEvent(ctx, ev); err != nil {
		s.log.Warn("insert calendar event", zap.Int64("appointment_id", appt.ID), zap.Error(err))
	}
}

func (s *Service) buildEvent(appt *Appointment, slot *SessionSlot) calendar.Event {
	start := slot.StartAt
	title := "Wellness session"
	if appt.SessionType == SessionOffline {
		title = "Wellness session (studio)"
	}

	return calendar.Event{
		Title:         title,
		Description:   fmt.Sprintf("Session for %s", appt.FullName),
		Location:      appt.LocationDetails,
		Start:         start,
		End:           start.Add(appt.Duration()),
		AttendeeEmail: appt.Email,
	}
}

// Confirm moves a PENDING appointment to CONFIRMED and marks the payment
// confirmed. Confirming an already-confirmed appointment is a no-op.
func (s *Service) Confirm(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	switch appt.Status {
	case StatusConfirmed:
		return appt, nil
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	}

	updated, err := s.repo.MarkConfirmed(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}

	// The slot must stay locked while an active appointment holds it.
	if err := s.repo.LockSlot(ctx, updated.SlotID); err != nil && !errors.Is(err, ErrSlotUnavailable) {
		s.log.Warn("re-lock slot on confirm", zap.Int64("slot_id", updated.SlotID), zap.Error(err))
	}

	return updated, nil
}

// Cancel moves the appointment to CANCELLED and releases its slot
// unconditionally. Refund details are accepted and recorded nowhere; the
// payment collaborator that would process them is a placeholder.
func (s *Service) Cancel(ctx context.Context, id int64, refund RefundDetails) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.Status != StatusCancelled {
		appt, err = s.repo.MarkCancelled(ctx, appt.ID)
		if err != nil {
			return nil, fmt.Errorf("cancel appointment: %w", err)
		}
	}

	if err := s.repo.ReleaseSlot(ctx, appt.SlotID); err != nil {
		return nil, fmt.Errorf("release slot: %w", err)
	}

	return appt, nil
}

// Reschedule re-points the appointment at newSlotID, freeing the old slot
// and locking the new one. Status is preserved.
func (s *Service) Reschedule(ctx context.Context, id, newSlotID int64) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if appt.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if appt.SlotID == newSlotID {
		return appt, nil
	}

	newSlot, err := s.repo.GetSlotByID(ctx, newSlotID)
	if err != nil {
		return nil, fmt.Errorf("load new slot: %w", err)
	}
	if !newSlot.IsAvailable {
		return nil, ErrSlotUnavailable
	}

	oldSlotID := appt.SlotID
	var updated *Appointment

	err = s.locker.WithSlotLock(ctx, newSlot.ID, func(lockCtx context.Context) error {
		if err := s.repo.LockSlot(lockCtx, newSlot.ID); err != nil {
			return err
		}

		updated, err = s.repo.UpdateAppointmentSlot(lockCtx, appt.ID, newSlot.ID)
		if err != nil {
			if relErr := s.repo.ReleaseSlot(lockCtx, newSlot.ID); relErr != nil {
				s.log.Error("release slot after failed reschedule",
					zap.Int64("slot_id", newSlot.ID), zap.Error(relErr))
			}
			return fmt.Errorf("update appointment slot: %w", err)
		}

		if err := s.repo.ReleaseSlot(lockCtx, oldSlotID); err != nil {
			return fmt.Errorf("release old slot: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return updated, nil
}

// StatusFor returns the appointments visible to the caller: everything for
// operators, own bookings for everyone else, most recent booking first.
func (s *Service) StatusFor(ctx context.Context, caller Caller) ([]AppointmentDetail, error) {
	if caller.Admin {
		return s.repo.ListAllAppointments(ctx)
	}
	if caller.Email == "" {
		return nil, fmt.Errorf("%w: caller email is required", ErrValidation)
	}
	return s.repo.ListAppointmentsByEmail(ctx, caller.Email)
}

// Get fetches one appointment with its slot; non-operators only see their own.
func (s *Service) Get(ctx context.Context, caller Caller, id int64) (*AppointmentDetail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Admin && !strings.EqualFold(caller.Email, detail.Email) {
		return nil, ErrForbidden
	}
	return detail, nil
}

// ExportICS renders the appointment as an iCalendar document. Cancelled
// appointments have nothing to export.
func (s *Service) ExportICS(ctx context.Context, caller Caller, id int64) ([]byte, error) {
	detail, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if detail.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	ev := s.buildEvent(&detail.Appointment, detail.Slot)
	uid := fmt.Sprintf("%d@%s", detail.ID, icsDomainTag)

	return calendar.ICS(ev, uid, s.clock.Now()), nil
}

// ConfirmPayments applies Confirm to each id and materializes the calendar
// link where it was requested but never generated. Per-id failures are
// logged and skipped so one bad id does not abort the batch.
func (s *Service) ConfirmPayments(ctx context.Context, ids []int64) int {
	confirmed := 0

	for _, id := range ids {
		appt, err := s.Confirm(ctx, id)
		if err != nil {
			s.log.Warn("bulk confirm", zap.Int64("appointment_id", id), zap.Error(err))
			continue
		}
		confirmed++

		if appt.AddToCalendar && (appt.CalendarLink == nil || *appt.CalendarLink == "") {
			slot, err := s.repo.GetSlotByID(ctx, appt.SlotID)
			if err != nil {
				s.log.Warn("load slot for calendar link", zap.Int64("appointment_id", id), zap.Error(err))
				continue
			}
			link := calendar.RenderLink(s.buildEvent(appt, slot))
			if err := s.repo.SetCalendarLink(ctx, appt.ID, link); err != nil {
				s.log.Warn("store calendar link", zap.Int64("appointment_id", id), zap.Error(err))
			}
		}
	}

	return confirmed
}
