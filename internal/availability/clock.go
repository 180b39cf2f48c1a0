package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Minute is a wall-clock time of day expressed as minutes since midnight.
// Schedule times carry minute resolution only.
type Minute int

// ParseClock parses an HH:MM time of day. The hour may be one or two digits;
// the minute must be two. Values outside 00:00-23:59 return
// ErrInvalidTimeFormat.
func ParseClock(value string) (Minute, error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || hourPart == "" || len(hourPart) > 2 || len(minutePart) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}

	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, value)
	}

	return Minute(hour*60 + minute), nil
}

// MinuteOf truncates an instant to its wall-clock minute of day.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

// Hour returns the hour component.
func (m Minute) Hour() int {
	return int(m) / 60
}

// MinuteOfHour returns the minute component.
func (m Minute) MinuteOfHour() int {
	return int(m) % 60
}

// String renders the zero-padded HH:MM form. The representation round-trips
// through ParseClock losslessly.
func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.MinuteOfHour())
}
