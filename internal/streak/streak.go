// Package streak tracks consecutive calendar days of practice.
package streak

import "time"

// Update is the outcome of advancing a streak.
type Update struct {
	Streak     int
	LastUpdate time.Time
	Changed    bool
}

// Advance applies one graded session at now. Calendar days are taken in loc.
// A session on the same day as the last update leaves the streak alone, one
// on the following day extends it, and anything else starts over at 1.
func Advance(current int, last *time.Time, now time.Time, loc *time.Location) Update {
	if loc == nil {
		loc = time.UTC
	}

	if last != nil && !last.IsZero() {
		lastDay := dayOf(*last, loc)
		today := dayOf(now, loc)

		switch {
		case lastDay.Equal(today):
			return Update{Streak: current, LastUpdate: *last}
		case lastDay.AddDate(0, 0, 1).Equal(today):
			return Update{Streak: current + 1, LastUpdate: now, Changed: true}
		}
	}

	return Update{Streak: 1, LastUpdate: now, Changed: true}
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
