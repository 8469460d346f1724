// Package clock abstracts wall time so deadlines, session expiry and
// timestamps can be driven from tests.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// System reads the host clock in UTC
type System struct{}

// New returns the host clock
func New() Clock {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Expired reports whether deadline is set and the clock has moved strictly
// past it
func Expired(c Clock, deadline *time.Time) bool {
	return deadline != nil && c.Now().After(*deadline)
}
