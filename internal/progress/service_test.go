package progress

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/clock"
)

type memRepo struct {
	activities []Activity
	moods      map[time.Time]MoodEntry
	nextID     int64
}

func newMemRepo() *memRepo {
	return &memRepo{moods: make(map[time.Time]MoodEntry), nextID: 1}
}

func (r *memRepo) InsertActivity(ctx context.Context, userEmail, action string, at time.Time) (*Activity, error) {
	a := Activity{ID: r.nextID, UserEmail: userEmail, Action: action, Timestamp: at}
	r.nextID++
	r.activities = append(r.activities, a)
	return &a, nil
}

func (r *memRepo) ActivityDays(ctx context.Context, userEmail string, since time.Time) ([]time.Time, error) {
	seen := make(map[time.Time]bool)
	for _, a := range r.activities {
		if a.UserEmail != userEmail || a.Timestamp.Before(since) {
			continue
		}
		seen[day(a.Timestamp)] = true
	}
	var days []time.Time
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

func (r *memRepo) UpsertMood(ctx context.Context, e *MoodEntry) (*MoodEntry, error) {
	stored := *e
	if old, ok := r.moods[e.Date]; ok {
		stored.ID = old.ID
	} else {
		stored.ID = r.nextID
		r.nextID++
	}
	r.moods[e.Date] = stored
	out := stored
	return &out, nil
}

func (r *memRepo) MoodEntriesBetween(ctx context.Context, userEmail string, from, to time.Time) ([]MoodEntry, error) {
	var out []MoodEntry
	for _, e := range r.moods {
		if e.UserEmail == userEmail && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeAppointments struct {
	completed int
	upcoming  []booking.AppointmentDetail
}

func (f *fakeAppointments) CountCompletedSessions(ctx context.Context, email string, now time.Time) (int, error) {
	return f.completed, nil
}

func (f *fakeAppointments) ListUpcomingAppointments(ctx context.Context, email string, today time.Time, limit int) ([]booking.AppointmentDetail, error) {
	if len(f.upcoming) > limit {
		return f.upcoming[:limit], nil
	}
	return f.upcoming, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// The fixed "now" for all tests: midday on 2025-01-07.
var testNow = time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memRepo, *fakeAppointments) {
	t.Helper()
	repo := newMemRepo()
	appts := &fakeAppointments{}
	return NewService(repo, appts, clock.Fixed{T: testNow}), repo, appts
}

func logOn(t *testing.T, repo *memRepo, email string, daysAgo int) {
	t.Helper()
	_, err := repo.InsertActivity(context.Background(), email, "login",
		day(testNow).AddDate(0, 0, -daysAgo).Add(9*time.Hour))
	require.NoError(t, err)
}

func TestStreakConsecutiveDays(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"

	// Activity today, yesterday and the day before; a gap at day 3 and a
	// stale entry beyond it.
	for _, ago := range []int{0, 1, 2, 4, 5} {
		logOn(t, repo, email, ago)
	}

	streak, err := svc.Streak(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakAnchoredOnYesterday(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"

	// No activity yet today; the streak survives until midnight.
	for _, ago := range []int{1, 2, 3} {
		logOn(t, repo, email, ago)
	}

	streak, err := svc.Streak(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakBroken(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"

	for _, ago := range []int{2, 3, 4} {
		logOn(t, repo, email, ago)
	}

	streak, err := svc.Streak(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreakNoActivity(t *testing.T) {
	svc, _, _ := newTestService(t)

	streak, err := svc.Streak(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreakCountsDaysNotEvents(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"

	// Several activities on the same day still count once.
	logOn(t, repo, email, 0)
	logOn(t, repo, email, 0)
	logOn(t, repo, email, 1)

	streak, err := svc.Streak(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestRecordMoodValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, score := range []int{0, 11, -3} {
		_, err := svc.RecordMood(context.Background(), "asha@example.com", score, "")
		assert.ErrorIs(t, err, booking.ErrValidation)
	}
}

func TestRecordMoodReplacesSameDay(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"

	first, err := svc.RecordMood(context.Background(), email, 4, "rough morning")
	require.NoError(t, err)

	second, err := svc.RecordMood(context.Background(), email, 8, "better evening")
	require.NoError(t, err)

	assert.Equal(t, first.Date, second.Date)
	assert.Len(t, repo.moods, 1)
	assert.Equal(t, 8, repo.moods[day(testNow)].Score)
}

func TestMoodSeriesFillsNeutral(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"
	ctx := context.Background()

	// Scores on 2025-01-01, 02 and 03; the rest of the week is unrecorded.
	for i, score := range []int{7, 5, 9} {
		_, err := repo.UpsertMood(ctx, &MoodEntry{
			UserEmail: email,
			Score:     score,
			Date:      time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	series, err := svc.MoodSeries(ctx, email, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 5, 9, 5, 5, 5, 5}, series)
}

func TestMoodSeriesWindowValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	for _, days := range []int{0, 1, 14, 31} {
		_, err := svc.MoodSeries(context.Background(), "asha@example.com", days)
		assert.ErrorIs(t, err, booking.ErrValidation)
	}
}

func TestAverageMood(t *testing.T) {
	svc, repo, _ := newTestService(t)
	const email = "asha@example.com"
	ctx := context.Background()

	// Empty history averages to the neutral score.
	avg, err := svc.AverageMood(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, float64(NeutralMoodScore), avg)

	// Only recorded days count toward the mean; missing days do not drag
	// it toward neutral.
	for i, score := range []int{6, 8} {
		_, err := repo.UpsertMood(ctx, &MoodEntry{
			UserEmail: email,
			Score:     score,
			Date:      day(testNow).AddDate(0, 0, -i),
		})
		require.NoError(t, err)
	}

	avg, err = svc.AverageMood(ctx, email)
	require.NoError(t, err)
	assert.InDelta(t, 7.0, avg, 0.001)
}

func TestMoodStatusBuckets(t *testing.T) {
	cases := []struct {
		avg     float64
		label   string
		percent int
	}{
		{9.2, "Very Happy", 100},
		{8.0, "Very Happy", 100},
		{7.9, "Happy", 80},
		{6.0, "Happy", 80},
		{5.0, "Neutral", 60},
		{4.0, "Neutral", 60},
		{3.5, "Low", 40},
		{2.9, "Need Support", 20},
		{1.0, "Need Support", 20},
	}

	for _, tc := range cases {
		got := MoodStatusFor(tc.avg)
		assert.Equal(t, tc.label, got.Label, "avg=%v", tc.avg)
		assert.Equal(t, tc.percent, got.Percent, "avg=%v", tc.avg)
	}
}

func TestLevels(t *testing.T) {
	cases := []struct {
		completed int
		level     string
	}{
		{0, "Newcomer"},
		{1, "Getting Started"},
		{2, "Getting Started"},
		{3, "Regular"},
		{5, "Regular"},
		{6, "Committed"},
		{9, "Committed"},
		{10, "Wellness Champion"},
		{40, "Wellness Champion"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelFor(tc.completed), "completed=%d", tc.completed)
	}
}

func TestLogActivityValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)

	err := svc.LogActivity(context.Background(), "asha@example.com", "   ")
	assert.ErrorIs(t, err, booking.ErrValidation)
	assert.Empty(t, repo.activities)

	err = svc.LogActivity(context.Background(), "asha@example.com", "Read article: Sleep Hygiene Basics")
	require.NoError(t, err)
	require.Len(t, repo.activities, 1)
	assert.Equal(t, testNow, repo.activities[0].Timestamp)
}

func TestSummary(t *testing.T) {
	svc, repo, appts := newTestService(t)
	const email = "asha@example.com"
	ctx := context.Background()

	for _, ago := range []int{0, 1} {
		logOn(t, repo, email, ago)
	}
	for i, score := range []int{8, 9, 7} {
		_, err := repo.UpsertMood(ctx, &MoodEntry{
			UserEmail: email,
			Score:     score,
			Date:      day(testNow).AddDate(0, 0, -i),
		})
		require.NoError(t, err)
	}
	appts.completed = 4

	dash, err := svc.Summary(ctx, email)
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Streak)
	assert.InDelta(t, 8.0, dash.AverageMood, 0.001)
	assert.Equal(t, "Very Happy", dash.MoodStatus.Label)
	assert.Equal(t, []int{5, 5, 5, 5, 7, 9, 8}, dash.MoodSeries)
	assert.Equal(t, 4, dash.CompletedSessions)
	assert.Equal(t, "Regular", dash.Level)
}
