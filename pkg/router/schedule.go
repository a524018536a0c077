package router

import (
	"fmt"
	"time"
)

type timeOfDay struct {
	hour, minute int
}

func parseTimeOfDay(s string) (timeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return timeOfDay{}, fmt.Errorf("%w: %q", errInvalidResetTime, s)
	}

	return timeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

func (t timeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

// next returns the first occurrence of t strictly after now, in now's
// location.
func (t timeOfDay) next(now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), t.hour, t.minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	return at
}

func (t timeOfDay) until(now time.Time) time.Duration {
	return t.next(now).Sub(now)
}
