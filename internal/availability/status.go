package availability

import (
	"fmt"
	"strings"
)

// Status represents the availability state derived for a user.
type Status string

const (
	// StatusGreen means available.
	StatusGreen Status = "green"
	// StatusYellow means limited availability.
	StatusYellow Status = "yellow"
	// StatusRed means unavailable.
	StatusRed Status = "red"
	// StatusUnknown means no schedule data has produced a status yet. It is
	// never accepted as caller input.
	StatusUnknown Status = "unknown"
)

// ParseStatus resolves one of the three settable status values,
// case-insensitively. Anything else returns ErrInvalidStatus.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusGreen:
		return StatusGreen, nil
	case StatusYellow:
		return StatusYellow, nil
	case StatusRed:
		return StatusRed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// Display returns the upper-case form used in rendered schedules.
func (s Status) Display() string {
	if s == "" {
		return strings.ToUpper(string(StatusUnknown))
	}
	return strings.ToUpper(string(s))
}

// Settable reports whether the status is one a caller may assign.
func (s Status) Settable() bool {
	return s == StatusGreen || s == StatusYellow || s == StatusRed
}
