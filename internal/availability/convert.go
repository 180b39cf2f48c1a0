package availability

import (
	"fmt"
	"time"
)

// LoadZone resolves an IANA timezone name. Empty or unrecognized names return
// ErrUnknownZone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return loc, nil
}

// Convert re-renders a wall-clock time of day from one zone into another. The
// reference date supplies the calendar day on which the instant is anchored;
// only its year, month, and day are used. The returned day shift is -1, 0, or
// +1 depending on whether the converted wall clock landed on the previous,
// same, or next calendar day.
//
// Daylight-saving gaps are resolved by the standard library: a nonexistent
// local time normalizes forward onto the valid side of the transition.
func Convert(m Minute, from, to *time.Location, reference time.Time) (Minute, int) {
	instant := time.Date(reference.Year(), reference.Month(), reference.Day(), m.Hour(), m.MinuteOfHour(), 0, 0, from)
	local := instant.In(to)

	sourceDay := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	targetDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	shift := int(targetDay.Sub(sourceDay).Hours() / 24)

	return MinuteOf(local), shift
}
