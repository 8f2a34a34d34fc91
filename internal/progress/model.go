package progress

import "time"

// Activity is one append-only log row; actions are free text like "login"
// or "Completed module: Psycho Education".
type Activity struct {
	ID        int64
	UserEmail string
	Action    string
	Timestamp time.Time
}

// MoodEntry is a user's self-reported score for one calendar day.
type MoodEntry struct {
	ID        int64
	UserEmail string
	Score     int
	Date      time.Time // midnight UTC
	Note      string
	CreatedAt time.Time
}

const (
	MinMoodScore     = 1
	MaxMoodScore     = 10
	NeutralMoodScore = 5
)

// MoodStatus is the qualitative bucket shown on the dashboard.
type MoodStatus struct {
	Label   string
	Percent int
}

// Dashboard is the aggregate the profile page renders.
type Dashboard struct {
	Streak            int
	AverageMood       float64
	MoodStatus        MoodStatus
	MoodSeries        []int
	CompletedSessions int
	Level             string
}
