package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/clock"
)

// AppointmentSource is the read-only slice of the booking repository the
// aggregator needs. booking.PgRepository satisfies it.
type AppointmentSource interface {
	CountCompletedSessions(ctx context.Context, email string, now time.Time) (int, error)
	ListUpcomingAppointments(ctx context.Context, email string, today time.Time, limit int) ([]booking.AppointmentDetail, error)
}

const (
	// UpcomingLimit caps the upcoming-appointments card on the dashboard.
	UpcomingLimit = 5

	// streakLookback bounds the activity-day scan; a streak longer than a
	// year is counted as a year.
	streakLookback = 366 * 24 * time.Hour
)

type Service struct {
	repo         Repository
	appointments AppointmentSource
	clock        clock.Clock
}

func NewService(repo Repository, appointments AppointmentSource, clk clock.Clock) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		clock:        clk,
	}
}

// LogActivity appends one activity row. Actions are never mutated or
// deleted afterwards.
func (s *Service) LogActivity(ctx context.Context, userEmail, action string) error {
	if strings.TrimSpace(action) == "" {
		return fmt.Errorf("%w: action is required", booking.ErrValidation)
	}
	_, err := s.repo.InsertActivity(ctx, userEmail, action, s.clock.Now())
	return err
}

// RecordMood records today's score for the user, replacing any earlier
// entry for the same day.
func (s *Service) RecordMood(ctx context.Context, userEmail string, score int, note string) (*MoodEntry, error) {
	if score < MinMoodScore || score > MaxMoodScore {
		return nil, fmt.Errorf("%w: mood score must be between %d and %d",
			booking.ErrValidation, MinMoodScore, MaxMoodScore)
	}

	return s.repo.UpsertMood(ctx, &MoodEntry{
		UserEmail: userEmail,
		Score:     score,
		Date:      truncateDay(s.clock.Now()),
		Note:      note,
	})
}

// Streak counts consecutive days with at least one activity, walking back
// from today. The most recent activity must be today or yesterday,
// otherwise the streak is broken and reported as 0.
func (s *Service) Streak(ctx context.Context, userEmail string) (int, error) {
	now := s.clock.Now()
	days, err := s.repo.ActivityDays(ctx, userEmail, now.Add(-streakLookback))
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := truncateDay(now)
	yesterday := today.AddDate(0, 0, -1)

	anchor := truncateDay(days[0])
	if !anchor.Equal(today) && !anchor.Equal(yesterday) {
		return 0, nil
	}

	streak := 1
	expect := anchor.AddDate(0, 0, -1)
	for _, d := range days[1:] {
		if !truncateDay(d).Equal(expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}

	return streak, nil
}

// MoodSeries returns one score per calendar day for the trailing window,
// oldest first. Days without an entry default to the neutral score.
func (s *Service) MoodSeries(ctx context.Context, userEmail string, days int) ([]int, error) {
	if days != 7 && days != 30 {
		return nil, fmt.Errorf("%w: mood window must be 7 or 30 days", booking.ErrValidation)
	}
	return s.moodSeriesEnding(ctx, userEmail, truncateDay(s.clock.Now()), days)
}

func (s *Service) moodSeriesEnding(ctx context.Context, userEmail string, end time.Time, days int) ([]int, error) {
	start := end.AddDate(0, 0, -(days - 1))

	entries, err := s.repo.MoodEntriesBetween(ctx, userEmail, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]int, len(entries))
	for _, e := range entries {
		byDay[truncateDay(e.Date)] = e.Score
	}

	series := make([]int, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if score, ok := byDay[d]; ok {
			series = append(series, score)
		} else {
			series = append(series, NeutralMoodScore)
		}
	}

	return series, nil
}

// AverageMood is the mean of recorded scores over the trailing 7 days, or
// the neutral score when nothing was recorded.
func (s *Service) AverageMood(ctx context.Context, userEmail string) (float64, error) {
	end := truncateDay(s.clock.Now())
	start := end.AddDate(0, 0, -6)

	entries, err := s.repo.MoodEntriesBetween(ctx, userEmail, start, end)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return NeutralMoodScore, nil
	}

	sum := 0
	for _, e := range entries {
		sum += e.Score
	}
	return float64(sum) / float64(len(entries)), nil
}

// MoodStatusFor maps an average score to its display bucket.
func MoodStatusFor(avg float64) MoodStatus {
	switch {
	case avg >= 8:
		return MoodStatus{Label: "Very Happy", Percent: 100}
	case avg >= 6:
		return MoodStatus{Label: "Happy", Percent: 80}
	case avg >= 4:
		return MoodStatus{Label: "Neutral", Percent: 60}
	case avg >= 3:
		return MoodStatus{Label: "Low", Percent: 40}
	default:
		return MoodStatus{Label: "Need Support", Percent: 20}
	}
}

// LevelFor maps a completed-session count to the tier label.
func LevelFor(completed int) string {
	switch {
	case completed <= 0:
		return "Newcomer"
	case completed <= 2:
		return "Getting Started"
	case completed <= 5:
		return "Regular"
	case completed <= 9:
		return "Committed"
	default:
		return "Wellness Champion"
	}
}

// CompletedSessions counts CONFIRMED appointments whose slot time is
// strictly in the past.
func (s *Service) CompletedSessions(ctx context.Context, userEmail string) (int, error) {
	return s.appointments.CountCompletedSessions(ctx, userEmail, s.clock.Now())
}

// Upcoming lists the caller's next active appointments, soonest first.
func (s *Service) Upcoming(ctx context.Context, userEmail string) ([]booking.AppointmentDetail, error) {
	return s.appointments.ListUpcomingAppointments(ctx, userEmail, truncateDay(s.clock.Now()), UpcomingLimit)
}

// Summary assembles the whole dashboard. Pure reads only.
func (s *Service) Summary(ctx context.Context, userEmail string) (*Dashboard, error) {
	streak, err := s.Streak(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("streak: %w", err)
	}

	avg, err := s.AverageMood(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("average mood: %w", err)
	}

	series, err := s.moodSeriesEnding(ctx, userEmail, truncateDay(s.clock.Now()), 7)
	if err != nil {
		return nil, fmt.Errorf("mood series: %w", err)
	}

	completed, err := s.CompletedSessions(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("completed sessions: %w", err)
	}

	return &Dashboard{
		Streak:            streak,
		AverageMood:       avg,
		MoodStatus:        MoodStatusFor(avg),
		MoodSeries:        series,
		CompletedSessions: completed,
		Level:             LevelFor(completed),
	}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
