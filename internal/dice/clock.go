package dice

import "time"

// TimestampLayout is the ISO-8601 layout used for RollResult.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Clock supplies the time stamped onto roll results.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystemClock returns a Clock reading the wall clock.
func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. Useful for tests and replays.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// formatTimestamp renders t in UTC using TimestampLayout.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
