package availability

import (
	"fmt"
	"strings"
	"time"
)

// Weekday identifies a day of the recurring weekly schedule. Monday is 0 and
// Sunday is 6 so that schedule views order naturally from the start of the
// working week.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// ParseWeekday resolves one of the seven canonical English day names,
// case-insensitively. Unknown names return ErrInvalidDay.
func ParseWeekday(name string) (Weekday, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range weekdayNames {
		if candidate == lower {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, name)
}

// FromTime converts the standard library weekday (Sunday=0) into the
// Monday-first domain weekday.
func FromTime(day time.Weekday) Weekday {
	if day == time.Sunday {
		return Sunday
	}
	return Weekday(int(day) - 1)
}

// Weekdays returns all seven days in Monday-first order.
func Weekdays() [7]Weekday {
	return [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// String returns the canonical lower-case name used in storage.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Label returns the capitalized name used in rendered schedules.
func (d Weekday) Label() string {
	name := d.String()
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// IsWeekend reports whether the day falls on the weekend window of a default
// availability row.
func (d Weekday) IsWeekend() bool {
	return d == Saturday || d == Sunday
}
