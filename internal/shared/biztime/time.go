// Package biztime provides time utilities for the application.
// All storage and transport use UTC; implicit Local timezone is prohibited.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time (any timezone) to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// FromUnix converts a unix-seconds timestamp to a UTC time.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
