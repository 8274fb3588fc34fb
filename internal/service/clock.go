package service

import "time"

// Clock returns the current time in the operator's timezone.
type Clock func() time.Time

// ClockIn returns a Clock bound to loc.
func ClockIn(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

const (
	displayDateTime = "02-01-2006 15:04"
	displayDate     = "02-01-2006"
	formDate        = "2006-01-02"
)
