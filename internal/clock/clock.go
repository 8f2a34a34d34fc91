package clock

import "time"

// Clock abstracts time.Now so date arithmetic is testable.
type Clock interface {
	Now() time.Time
}

// System implements Clock with the system clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
