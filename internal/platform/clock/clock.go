package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// DayLayout is the calendar-day stamp stored in daily quest state.
const DayLayout = "2006-01-02"

// Today returns the local calendar day of c as a DayLayout stamp.
func Today(c Clock) string {
	return c.Now().Local().Format(DayLayout)
}
