package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentCols = `
	id, full_name, email, phone, slot_id, booked_on, session_type,
	duration_minutes, first_session, status, payment_mode, upi_id,
	payment_confirmed, location_details, add_to_calendar, calendar_link,
	external_ref`

// Helpers

func scanSlot(row pgx.Row) (*SessionSlot, error) {
	var s SessionSlot

	err := row.Scan(
		&s.ID,
		&s.StartAt,
		&s.IsAvailable,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&a.SlotID,
		&a.BookedOn,
		&a.SessionType,
		&a.DurationMinutes,
		&a.FirstSession,
		&a.Status,
		&a.PaymentMode,
		&a.UPIID,
		&a.PaymentConfirmed,
		&a.LocationDetails,
		&a.AddToCalendar,
		&a.CalendarLink,
		&a.ExternalRef,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	var s SessionSlot

	err := row.Scan(
		&d.ID,
		&d.FullName,
		&d.Email,
		&d.Phone,
		&d.SlotID,
		&d.BookedOn,
		&d.SessionType,
		&d.DurationMinutes,
		&d.FirstSession,
		&d.Status,
		&d.PaymentMode,
		&d.UPIID,
		&d.PaymentConfirmed,
		&d.LocationDetails,
		&d.AddToCalendar,
		&d.CalendarLink,
		&d.ExternalRef,
		&s.ID,
		&s.StartAt,
		&s.IsAvailable,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	d.Slot = &s
	return &d, nil
}

func (r *PgRepository) queryDetails(ctx context.Context, query string, args ...any) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AppointmentDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

const detailQuery = `
	SELECT a.id, a.full_name, a.email, a.phone, a.slot_id, a.booked_on,
	       a.session_type, a.duration_minutes, a.first_session, a.status,
	       a.payment_mode, a.upi_id, a.payment_confirmed, a.location_details,
	       a.add_to_calendar, a.calendar_link, a.external_ref,
	       s.id, s.start_at, s.is_available, s.created_at
	FROM appointments a
	JOIN session_slots s ON s.id = a.slot_id`

// Interface methods

func (r *PgRepository) CreateSlot(ctx context.Context, startAt time.Time) (*SessionSlot, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO session_slots (start_at, is_available, created_at)
		VALUES ($1, true, now())
		RETURNING id, start_at, is_available, created_at
	`, startAt)
	return scanSlot(row)
}

func (r *PgRepository) GetSlotByID(ctx context.Context, id int64) (*SessionSlot, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, start_at, is_available, created_at
		FROM session_slots
		WHERE id = $1
	`, id)
	return scanSlot(row)
}

func (r *PgRepository) ListAvailableSlots(ctx context.Context, from, to time.Time) ([]SessionSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, start_at, is_available, created_at
		FROM session_slots
		WHERE is_available
		  AND start_at >= $1
		  AND start_at < $2
		ORDER BY start_at
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []SessionSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// LockSlot is the atomic availability flip: the WHERE clause makes the
// loser of a race see zero affected rows instead of double-locking.
func (r *PgRepository) LockSlot(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_slots
		SET is_available = false
		WHERE id = $1 AND is_available
	`, id)
	if err != nil {
		return fmt.Errorf("lock slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing slot from a locked one.
		if _, getErr := r.GetSlotByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrSlotUnavailable
	}
	return nil
}

func (r *PgRepository) ReleaseSlot(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE session_slots
		SET is_available = true
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *PgRepository) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (
			full_name, email, phone, slot_id, booked_on, session_type,
			duration_minutes, first_session, status, payment_mode, upi_id,
			payment_confirmed, location_details, add_to_calendar
		)
		VALUES ($1, $2, $3, $4, now(), $5, $6, $7, 'PENDING', $8, $9, false, $10, $11)
		RETURNING`+appointmentCols+`
	`, a.FullName, a.Email, a.Phone, a.SlotID, a.SessionType,
		a.DurationMinutes, a.FirstSession, a.PaymentMode, a.UPIID,
		a.LocationDetails, a.AddToCalendar)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT`+appointmentCols+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id int64) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+`
		WHERE a.id = $1
	`, id)
	return scanDetail(row)
}

func (r *PgRepository) MarkConfirmed(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'CONFIRMED',
		    payment_confirmed = true
		WHERE id = $1
		  AND status = 'PENDING'
		RETURNING`+appointmentCols+`
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) MarkCancelled(ctx context.Context, id int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'CANCELLED'
		WHERE id = $1
		  AND status <> 'CANCELLED'
		RETURNING`+appointmentCols+`
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentSlot(ctx context.Context, id, newSlotID int64) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET slot_id = $2
		WHERE id = $1
		RETURNING`+appointmentCols+`
	`, id, newSlotID)
	return scanAppointment(row)
}

func (r *PgRepository) SetCalendarLink(ctx context.Context, id int64, link string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET calendar_link = $2
		WHERE id = $1
	`, id, link)
	if err != nil {
		return fmt.Errorf("set calendar link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListAllAppointments(ctx context.Context) ([]AppointmentDetail, error) {
	return r.queryDetails(ctx, detailQuery+`
		ORDER BY a.booked_on DESC
	`)
}

func (r *PgRepository) ListAppointmentsByEmail(ctx context.Context, email string) ([]AppointmentDetail, error) {
	return r.queryDetails(ctx, detailQuery+`
		WHERE a.email = $1
		ORDER BY a.booked_on DESC
	`, email)
}

func (r *PgRepository) CountCompletedSessions(ctx context.Context, email string, now time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments a
		JOIN session_slots s ON s.id = a.slot_id
		WHERE a.email = $1
		  AND a.status = 'CONFIRMED'
		  AND s.start_at < $2
	`, email, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return count, nil
}

func (r *PgRepository) ListUpcomingAppointments(ctx context.Context, email string, today time.Time, limit int) ([]AppointmentDetail, error) {
	return r.queryDetails(ctx, detailQuery+`
		WHERE a.email = $1
		  AND a.status IN ('PENDING', 'CONFIRMED')
		  AND s.start_at >= $2
		ORDER BY s.start_at
		LIMIT $3
	`, email, today, limit)
}

func (r *PgRepository) ListActiveAppointmentsBetween(ctx context.Context, from, to time.Time) ([]AppointmentDetail, error) {
	return r.queryDetails(ctx, detailQuery+`
		WHERE a.status IN ('PENDING', 'CONFIRMED')
		  AND s.start_at >= $1
		  AND s.start_at < $2
		ORDER BY s.start_at
	`, from, to)
}
