package availability

import "errors"

var (
	// ErrUnknownZone is returned when a timezone name is not a valid IANA
	// identifier.
	ErrUnknownZone = errors.New("availability: unknown timezone")
	// ErrInvalidStatus is returned when a status is not green, yellow, or red.
	ErrInvalidStatus = errors.New("availability: invalid status")
	// ErrInvalidTimeFormat is returned when a time of day cannot be parsed as
	// HH:MM.
	ErrInvalidTimeFormat = errors.New("availability: invalid time format")
	// ErrInvalidDay is returned when a weekday is not one of the seven
	// canonical names.
	ErrInvalidDay = errors.New("availability: invalid day")
)
