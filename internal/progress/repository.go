package progress

import (
	"context"
	"time"
)

// Repository contains the DB interactions for activity and mood history.
type Repository interface {
	InsertActivity(ctx context.Context, userEmail, action string, at time.Time) (*Activity, error)

	// ActivityDays returns the distinct calendar days (midnight UTC) with at
	// least one activity since the given time, newest first.
	ActivityDays(ctx context.Context, userEmail string, since time.Time) ([]time.Time, error)

	// UpsertMood inserts or replaces the entry for (user, date).
	UpsertMood(ctx context.Context, e *MoodEntry) (*MoodEntry, error)
	MoodEntriesBetween(ctx context.Context, userEmail string, from, to time.Time) ([]MoodEntry, error)
}
