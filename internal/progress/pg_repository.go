package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertActivity(ctx context.Context, userEmail, action string, at time.Time) (*Activity, error) {
	a := Activity{
		UserEmail: userEmail,
		Action:    action,
		Timestamp: at,
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO activities (user_email, action, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userEmail, action, at).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}

	return &a, nil
}

func (r *PgRepository) ActivityDays(ctx context.Context, userEmail string, since time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT date_trunc('day', timestamp AT TIME ZONE 'UTC') AS day
		FROM activities
		WHERE user_email = $1
		  AND timestamp >= $2
		ORDER BY day DESC
	`, userEmail, since)
	if err != nil {
		return nil, fmt.Errorf("list activity days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		days = append(days, d.UTC())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

func (r *PgRepository) UpsertMood(ctx context.Context, e *MoodEntry) (*MoodEntry, error) {
	out := *e

	err := r.pool.QueryRow(ctx, `
		INSERT INTO mood_entries (user_email, score, date, note, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_email, date)
		DO UPDATE SET score = EXCLUDED.score, note = EXCLUDED.note
		RETURNING id, created_at
	`, e.UserEmail, e.Score, e.Date, e.Note).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert mood entry: %w", err)
	}

	return &out, nil
}

func (r *PgRepository) MoodEntriesBetween(ctx context.Context, userEmail string, from, to time.Time) ([]MoodEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_email, score, date, note, created_at
		FROM mood_entries
		WHERE user_email = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date
	`, userEmail, from, to)
	if err != nil {
		return nil, fmt.Errorf("list mood entries: %w", err)
	}
	defer rows.Close()

	var entries []MoodEntry
	for rows.Next() {
		var e MoodEntry
		if err := rows.Scan(&e.ID, &e.UserEmail, &e.Score, &e.Date, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Date = e.Date.UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
